package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/turnohq/turno-admin/internal/service"
)

func runListUsers(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var params service.ListParams
	fs.IntVar(&params.Page, "page", 1, "Page to fetch")
	fs.IntVar(&params.Limit, "limit", service.DefaultPageLimit, "Page size")
	fs.StringVar(&params.Search, "search", "", "Filter by name, email or RUT")
	query := fs.String("query", "", "JMESPath expression applied to the JSON output")
	asJSON := fs.Bool("json", false, "Emit JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	page, err := app.Users.List(ctx, params)
	if err != nil {
		return err
	}

	if *asJSON || *query != "" {
		return renderJSON(os.Stdout, page, *query)
	}
	return renderUserTable(os.Stdout, page)
}

func runGetUser(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("get-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "User ID")
	query := fs.String("query", "", "JMESPath expression applied to the JSON output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	user, err := app.Users.Get(ctx, *id)
	if err != nil {
		return err
	}
	return renderJSON(os.Stdout, user, *query)
}

func runCreateUser(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var in service.CreateUserInput
	var roles string
	fs.StringVar(&in.RUT, "rut", "", "RUT for the new account")
	fs.StringVar(&in.Email, "email", "", "Email address")
	fs.StringVar(&in.Password, "password", "", "Initial password")
	fs.StringVar(&in.FirstName, "first-name", "", "First name")
	fs.StringVar(&in.LastName, "last-name", "", "Last name")
	fs.StringVar(&roles, "roles", "", "Comma-separated role IDs to assign")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.RoleIDs = splitList(roles)

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	user, err := app.Users.Create(ctx, in)
	if err != nil {
		return err
	}
	return writef(os.Stdout, "Created user %s (%s)\n", user.ID, user.Email)
}

func runUpdateUser(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("update-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	id := fs.String("id", "", "User ID")
	email := fs.String("email", "", "New email address")
	firstName := fs.String("first-name", "", "New first name")
	lastName := fs.String("last-name", "", "New last name")
	active := fs.Bool("active", true, "Whether the account is active")
	roles := fs.String("roles", "", "Comma-separated role IDs to assign")
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only flags the caller actually set travel in the request; everything
	// else stays untouched server-side.
	var in service.UpdateUserInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "email":
			in.Email = email
		case "first-name":
			in.FirstName = firstName
		case "last-name":
			in.LastName = lastName
		case "active":
			in.IsActive = active
		case "roles":
			in.RoleIDs = splitList(*roles)
		}
	})

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	user, err := app.Users.Update(ctx, *id, in)
	if err != nil {
		return err
	}
	return writef(os.Stdout, "Updated user %s\n", user.ID)
}

func runDeleteUser(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("delete-user", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "User ID")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := confirmDeletion(fmt.Sprintf("user %s", *id), *yes); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	if err := app.Users.Delete(ctx, *id); err != nil {
		return err
	}
	return writef(os.Stdout, "Deleted user %s\n", *id)
}

func runListRoles(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-roles", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var params service.ListParams
	fs.IntVar(&params.Page, "page", 1, "Page to fetch")
	fs.IntVar(&params.Limit, "limit", service.DefaultPageLimit, "Page size")
	query := fs.String("query", "", "JMESPath expression applied to the JSON output")
	asJSON := fs.Bool("json", false, "Emit JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	page, err := app.Roles.List(ctx, params)
	if err != nil {
		return err
	}

	if *asJSON || *query != "" {
		return renderJSON(os.Stdout, page, *query)
	}
	return renderRoleTable(os.Stdout, page)
}

func runCreateRole(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("create-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var in service.CreateRoleInput
	var perms string
	fs.StringVar(&in.Name, "name", "", "Role name")
	fs.StringVar(&in.Description, "description", "", "Role description")
	fs.StringVar(&perms, "permissions", "", "Comma-separated permission IDs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.PermissionIDs = splitList(perms)

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	role, err := app.Roles.Create(ctx, in)
	if err != nil {
		return err
	}
	return writef(os.Stdout, "Created role %s (%s)\n", role.ID, role.Name)
}

func runGetRole(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("get-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Role ID")
	query := fs.String("query", "", "JMESPath expression applied to the JSON output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	role, err := app.Roles.Get(ctx, *id)
	if err != nil {
		return err
	}
	return renderJSON(os.Stdout, role, *query)
}

func runUpdateRole(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("update-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	id := fs.String("id", "", "Role ID")
	name := fs.String("name", "", "New role name")
	description := fs.String("description", "", "New role description")
	active := fs.Bool("active", true, "Whether the role is active")
	perms := fs.String("permissions", "", "Comma-separated permission IDs to assign")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var in service.UpdateRoleInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			in.Name = name
		case "description":
			in.Description = description
		case "active":
			in.IsActive = active
		case "permissions":
			in.PermissionIDs = splitList(*perms)
		}
	})

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	role, err := app.Roles.Update(ctx, *id, in)
	if err != nil {
		return err
	}
	return writef(os.Stdout, "Updated role %s\n", role.ID)
}

func runDeleteRole(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("delete-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Role ID")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := confirmDeletion(fmt.Sprintf("role %s", *id), *yes); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	if err := app.Roles.Delete(ctx, *id); err != nil {
		return err
	}
	return writef(os.Stdout, "Deleted role %s\n", *id)
}

func runListPermissions(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("list-permissions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var params service.ListParams
	fs.IntVar(&params.Page, "page", 1, "Page to fetch")
	fs.IntVar(&params.Limit, "limit", service.DefaultPageLimit, "Page size")
	query := fs.String("query", "", "JMESPath expression applied to the JSON output")
	asJSON := fs.Bool("json", false, "Emit JSON instead of a table")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	page, err := app.Permissions.List(ctx, params)
	if err != nil {
		return err
	}

	if *asJSON || *query != "" {
		return renderJSON(os.Stdout, page, *query)
	}
	return renderPermissionTable(os.Stdout, page)
}

func runCreatePermission(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("create-permission", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var in service.CreatePermissionInput
	fs.StringVar(&in.Name, "name", "", "Permission name (e.g. users:read)")
	fs.StringVar(&in.Description, "description", "", "Permission description")
	fs.StringVar(&in.Resource, "resource", "", "Resource the permission covers")
	fs.StringVar(&in.Action, "action", "", "Action the permission allows")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	perm, err := app.Permissions.Create(ctx, in)
	if err != nil {
		return err
	}
	return writef(os.Stdout, "Created permission %s (%s)\n", perm.ID, perm.Name)
}

func runGetPermission(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("get-permission", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Permission ID")
	query := fs.String("query", "", "JMESPath expression applied to the JSON output")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	perm, err := app.Permissions.Get(ctx, *id)
	if err != nil {
		return err
	}
	return renderJSON(os.Stdout, perm, *query)
}

func runUpdatePermission(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("update-permission", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	id := fs.String("id", "", "Permission ID")
	description := fs.String("description", "", "New permission description")
	active := fs.Bool("active", true, "Whether the permission is active")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var in service.UpdatePermissionInput
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "description":
			in.Description = description
		case "active":
			in.IsActive = active
		}
	})

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	perm, err := app.Permissions.Update(ctx, *id, in)
	if err != nil {
		return err
	}
	return writef(os.Stdout, "Updated permission %s\n", perm.ID)
}

func runDeletePermission(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("delete-permission", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	id := fs.String("id", "", "Permission ID")
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := confirmDeletion(fmt.Sprintf("permission %s", *id), *yes); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if _, err = requireAdmin(ctx, app); err != nil {
		return err
	}

	if err := app.Permissions.Delete(ctx, *id); err != nil {
		return err
	}
	return writef(os.Stdout, "Deleted permission %s\n", *id)
}

// splitList turns a comma-separated flag value into a clean slice.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func confirmDeletion(target string, yes bool) error {
	if yes {
		return nil
	}
	if err := writef(os.Stderr, "About to delete %s. Continue? [y/N] ", target); err != nil {
		return err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return nil
	default:
		return errors.New("aborted")
	}
}
