package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/turnohq/turno-admin/config"
	"github.com/turnohq/turno-admin/internal/adapters/filestore"
	"github.com/turnohq/turno-admin/internal/adapters/memstore"
	"github.com/turnohq/turno-admin/internal/adapters/redisstore"
	"github.com/turnohq/turno-admin/internal/api"
	"github.com/turnohq/turno-admin/internal/ports"
	"github.com/turnohq/turno-admin/internal/service"
)

// App bundles the wired client, session and resource services.
type App struct {
	Config  config.AppConfig
	Logger  *slog.Logger
	Client  *api.Client
	Tokens  *service.Tokens
	Session *service.SessionManager

	Users       *service.UserService
	Roles       *service.RoleService
	Permissions *service.PermissionService
	Shifts      *service.ShiftService
	Dashboard   *service.DashboardService
}

// BuildApp wires the token stores, API client, session manager and resource
// services from configuration.
func BuildApp(cfg config.AppConfig, logger *slog.Logger) (*App, error) {
	durable, err := buildDurableStore(cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := service.NewTokens(durable, memstore.New())
	if err != nil {
		return nil, err
	}

	client, err := api.New(api.Config{
		BaseURL:    cfg.API.BaseURL,
		Tokens:     tokens,
		HTTPClient: &http.Client{Timeout: cfg.API.Timeout},
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}

	session, err := service.NewSessionManager(service.SessionManagerOptions{
		API:    client,
		Tokens: tokens,
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	users, err := service.NewUserService(service.UserServiceOptions{Client: client, Logger: logger})
	if err != nil {
		return nil, err
	}
	roles, err := service.NewRoleService(service.RoleServiceOptions{Client: client, Logger: logger})
	if err != nil {
		return nil, err
	}
	permissions, err := service.NewPermissionService(service.PermissionServiceOptions{Client: client, Logger: logger})
	if err != nil {
		return nil, err
	}
	shifts, err := service.NewShiftService(service.ShiftServiceOptions{Client: client, Logger: logger})
	if err != nil {
		return nil, err
	}
	dashboard, err := service.NewDashboardService(service.DashboardServiceOptions{Client: client, Logger: logger})
	if err != nil {
		return nil, err
	}

	return &App{
		Config:      cfg,
		Logger:      logger,
		Client:      client,
		Tokens:      tokens,
		Session:     session,
		Users:       users,
		Roles:       roles,
		Permissions: permissions,
		Shifts:      shifts,
		Dashboard:   dashboard,
	}, nil
}

// buildDurableStore selects the durable token tier from configuration.
func buildDurableStore(cfg config.AppConfig) (ports.TokenStore, error) {
	switch cfg.Auth.TokenStore {
	case config.TokenStoreMemory:
		return memstore.New(), nil

	case config.TokenStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return redisstore.NewWithKey(client, cfg.Auth.RedisKey), nil

	case config.TokenStoreFile:
		path := cfg.Auth.TokenFile
		if path == "" {
			var err error
			path, err = filestore.DefaultPath()
			if err != nil {
				return nil, err
			}
		}
		return filestore.New(path)

	default:
		return nil, fmt.Errorf("unknown token store mode: %q", cfg.Auth.TokenStore)
	}
}
