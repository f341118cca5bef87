package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	"github.com/turnohq/turno-admin/internal/service"
	"github.com/turnohq/turno-admin/internal/util"
)

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

// renderJSON prints v as indented JSON, optionally filtered through a
// JMESPath expression first. The value is round-tripped through plain JSON
// types so the expression addresses wire field names, not Go struct fields.
func renderJSON(w io.Writer, v any, query string) error {
	if query != "" {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal output: %w", err)
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return fmt.Errorf("reshape output: %w", err)
		}
		v, err = jmespath.Search(query, generic)
		if err != nil {
			return fmt.Errorf("apply query %q: %w", query, err)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderUserTable(w io.Writer, page *service.UserPage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tRUT\tNAME\tEMAIL\tACTIVE\tROLES\n"); err != nil {
		return err
	}
	for _, u := range page.Users {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%t\t%s\n",
			u.ID, domainauth.FormatRUT(u.RUT), u.FullName(), u.Email, u.IsActive,
			strings.Join(u.RoleNames(), ",")); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\nPage %d, showing %d of %d users\n", page.Page, len(page.Users), page.Total)
}

func renderRoleTable(w io.Writer, page *service.RolePage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tNAME\tACTIVE\tPERMISSIONS\tDESCRIPTION\n"); err != nil {
		return err
	}
	for _, r := range page.Roles {
		perms := make([]string, 0, len(r.Permissions))
		for _, p := range r.Permissions {
			perms = append(perms, p.Name)
		}
		if err := writef(tw, "%s\t%s\t%t\t%s\t%s\n",
			r.ID, r.Name, r.IsActive, strings.Join(perms, ","), r.Description); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\nPage %d, showing %d of %d roles\n", page.Page, len(page.Roles), page.Total)
}

func renderPermissionTable(w io.Writer, page *service.PermissionPage) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tNAME\tRESOURCE\tACTION\tACTIVE\n"); err != nil {
		return err
	}
	for _, p := range page.Permissions {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%t\n",
			p.ID, p.Name, p.Resource, p.Action, p.IsActive); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\nPage %d, showing %d of %d permissions\n", page.Page, len(page.Permissions), page.Total)
}

const shiftTimeLayout = "2006-01-02 15:04"

func renderShiftTable(w io.Writer, history *service.ShiftHistory) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tSTART\tEND\tSTATUS\tDURATION\n"); err != nil {
		return err
	}
	for _, s := range history.Shifts {
		end := "-"
		if s.EndTime != nil {
			end = s.EndTime.Format(shiftTimeLayout)
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.StartTime.Format(shiftTimeLayout), end, s.Status,
			util.FormatShiftDuration(s.DurationMinutes)); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return writef(w, "\nShowing %d of %d shifts\n", len(history.Shifts), history.Total)
}

func renderDashboard(w io.Writer, overview *service.DashboardOverview) error {
	s := overview.Summary
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rows := []struct {
		label string
		value int
	}{
		{"Total users", s.TotalUsers},
		{"Active users", s.ActiveUsers},
		{"Total roles", s.TotalRoles},
		{"Active shifts", s.ActiveShifts},
		{"Shifts today", s.ShiftsToday},
		{"Pending shifts", s.PendingShifts},
	}
	for _, row := range rows {
		if err := writef(tw, "%s\t%d\n", row.label, row.value); err != nil {
			return err
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(overview.RecentShifts) == 0 {
		return nil
	}
	if err := writef(w, "\nRecent shifts:\n"); err != nil {
		return err
	}
	return renderShiftTable(w, &service.ShiftHistory{
		Shifts: overview.RecentShifts,
		Total:  len(overview.RecentShifts),
	})
}
