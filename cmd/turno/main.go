package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/turnohq/turno-admin/config"
	"github.com/turnohq/turno-admin/internal/bootstrap"
	domainauth "github.com/turnohq/turno-admin/internal/domain/auth"
	"github.com/turnohq/turno-admin/internal/guard"
	"github.com/turnohq/turno-admin/internal/service"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultCommandTimeout = 2 * time.Minute

var adminOnly = guard.RoleRequirement{Roles: []string{"admin"}}

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}
	if cfg.IsDev {
		logger = bootstrap.InitDevLogger()
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Authenticate with RUT and password, storing the session token",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "Discard the stored session token",
			run:         runLogout,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the currently authenticated user and their roles",
			run:         runWhoami,
		},
		"dashboard": {
			name:        "dashboard",
			description: "Show the admin dashboard counters and recent shifts",
			run:         runDashboard,
		},
		"list-users": {
			name:        "list-users",
			description: "List user accounts (admin)",
			run:         runListUsers,
		},
		"get-user": {
			name:        "get-user",
			description: "Show one user account by ID (admin)",
			run:         runGetUser,
		},
		"create-user": {
			name:        "create-user",
			description: "Create a user account (admin)",
			run:         runCreateUser,
		},
		"update-user": {
			name:        "update-user",
			description: "Update a user account (admin)",
			run:         runUpdateUser,
		},
		"delete-user": {
			name:        "delete-user",
			description: "Delete a user account (admin)",
			run:         runDeleteUser,
		},
		"list-roles": {
			name:        "list-roles",
			description: "List roles (admin)",
			run:         runListRoles,
		},
		"get-role": {
			name:        "get-role",
			description: "Show one role by ID (admin)",
			run:         runGetRole,
		},
		"create-role": {
			name:        "create-role",
			description: "Create a role (admin)",
			run:         runCreateRole,
		},
		"update-role": {
			name:        "update-role",
			description: "Update a role (admin)",
			run:         runUpdateRole,
		},
		"delete-role": {
			name:        "delete-role",
			description: "Delete a role (admin)",
			run:         runDeleteRole,
		},
		"list-permissions": {
			name:        "list-permissions",
			description: "List permissions (admin)",
			run:         runListPermissions,
		},
		"get-permission": {
			name:        "get-permission",
			description: "Show one permission by ID (admin)",
			run:         runGetPermission,
		},
		"create-permission": {
			name:        "create-permission",
			description: "Create a permission (admin)",
			run:         runCreatePermission,
		},
		"update-permission": {
			name:        "update-permission",
			description: "Update a permission (admin)",
			run:         runUpdatePermission,
		},
		"delete-permission": {
			name:        "delete-permission",
			description: "Delete a permission (admin)",
			run:         runDeletePermission,
		},
		"shift-history": {
			name:        "shift-history",
			description: "Show the current user's shift history",
			run:         runShiftHistory,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: turno <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	cmds := commands()
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writef(os.Stdout, "  %-20s %s\n", name, cmds[name].description); err != nil {
			return err
		}
	}
	return nil
}

// buildApp wires the client stack and restores the session from the stored
// token so guards have something settled to look at.
func buildApp(cmdCtx *commandContext) (*bootstrap.App, context.Context, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, defaultCommandTimeout)

	app, err := bootstrap.BuildApp(cmdCtx.Config, cmdCtx.Logger)
	if err != nil {
		cancel()
		return nil, nil, nil, err
	}
	st, initErr := app.Session.Initialize(ctx)
	if initErr != nil {
		if !st.Resolved() {
			cancel()
			return nil, nil, nil, initErr
		}
		// A stored token the backend rejects settles the session as an
		// unauthenticated cold start with the tokens already cleared. The
		// command proceeds; guards report the denial where a session is
		// actually required.
		cmdCtx.Logger.Warn("stored session not restored", "error", initErr)
	}

	// Re-check the stored token in the background for the lifetime of the
	// command, the way the console polled while open.
	go app.Session.WatchExpiry(ctx, cmdCtx.Config.Auth.ExpiryCheckInterval)

	return app, ctx, cancel, nil
}

func requireAdmin(ctx context.Context, app *bootstrap.App) (*domainauth.User, error) {
	return guard.RequireRoles(ctx, app.Session, adminOnly)
}

type loginOptions struct {
	RUT      string
	Password string
	Remember bool
}

func parseLoginFlags(args []string) (loginOptions, error) {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts loginOptions
	fs.StringVar(&opts.RUT, "rut", "", "RUT to authenticate as (e.g. 12.345.678-5)")
	fs.StringVar(&opts.Password, "password", "", "Password (prompted when omitted)")
	fs.BoolVar(&opts.Remember, "remember", false, "Persist the session across restarts")

	if err := fs.Parse(args); err != nil {
		return loginOptions{}, err
	}
	if opts.RUT == "" {
		return loginOptions{}, errors.New("login requires -rut")
	}
	return opts, nil
}

func runLogin(cmdCtx *commandContext, args []string) error {
	opts, err := parseLoginFlags(args)
	if err != nil {
		return err
	}

	if opts.Password == "" {
		opts.Password, err = promptPassword(os.Stdin, os.Stderr)
		if err != nil {
			return err
		}
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	if loginErr := app.Session.Login(ctx, domainauth.Credentials{
		RUT:        opts.RUT,
		Password:   opts.Password,
		RememberMe: opts.Remember,
	}); loginErr != nil {
		return loginErr
	}

	st := app.Session.Current()
	return writef(os.Stdout, "Logged in as %s (%s)\n", st.User.FullName(), strings.Join(st.User.RoleNames(), ", "))
}

func promptPassword(in *os.File, out *os.File) (string, error) {
	if err := writef(out, "Password: "); err != nil {
		return "", err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}

func runLogout(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	app.Session.Logout(ctx)
	return writef(os.Stdout, "Logged out\n")
}

func runWhoami(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	query := fs.String("query", "", "JMESPath expression applied to the JSON output")
	asJSON := fs.Bool("json", false, "Emit JSON instead of text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	app, ctx, cancel, err := buildApp(cmdCtx)
	if err != nil {
		return err
	}
	defer cancel()

	user, err := guard.RequireAuth(ctx, app.Session)
	if err != nil {
		return err
	}

	if *asJSON || *query != "" {
		return renderJSON(os.Stdout, user, *query)
	}
	if err := writef(os.Stdout, "%s <%s>\n", user.FullName(), user.Email); err != nil {
		return err
	}
	if err := writef(os.Stdout, "RUT:   %s\n", domainauth.FormatRUT(user.RUT)); err != nil {
		return err
	}
	return writef(os.Stdout, "Roles: %s\n", strings.Join(user.RoleNames(), ", "))
}

func runDashboard(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
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

	overview, err := app.Dashboard.Overview(ctx)
	if err != nil {
		return err
	}

	if *asJSON || *query != "" {
		return renderJSON(os.Stdout, overview, *query)
	}
	return renderDashboard(os.Stdout, overview)
}

func runShiftHistory(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("shift-history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var q service.ShiftQuery
	fs.IntVar(&q.Limit, "limit", service.DefaultPageLimit, "Maximum shifts to display")
	fs.IntVar(&q.Offset, "offset", 0, "Offset into the history")
	fs.StringVar(&q.Status, "status", "", "Filter by status (active, completed, cancelled)")
	fs.StringVar(&q.StartDate, "start-date", "", "Earliest shift date (YYYY-MM-DD)")
	fs.StringVar(&q.EndDate, "end-date", "", "Latest shift date (YYYY-MM-DD)")
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

	if _, err = guard.RequireAuth(ctx, app.Session); err != nil {
		return err
	}

	history, err := app.Shifts.History(ctx, q)
	if err != nil {
		return err
	}

	if *asJSON || *query != "" {
		return renderJSON(os.Stdout, history, *query)
	}
	return renderShiftTable(os.Stdout, history)
}
