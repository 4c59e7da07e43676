package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/adanyl0v/go-task-api/internal/config"
	"github.com/adanyl0v/go-task-api/internal/services"
	"github.com/adanyl0v/go-task-api/internal/storage"
	"github.com/adanyl0v/go-task-api/internal/storage/postgres"
	"github.com/adanyl0v/go-task-api/internal/storage/sqlite"
)

var globalStore storage.Store

// MustOpenStorage connects to the configured driver and applies the
// embedded schema.
func MustOpenStorage() {
	cfg := config.Global()
	ctx := context.Background()

	var err error
	switch cfg.Storage.Driver {
	case storage.DriverPostgres:
		pgCfg := cfg.Postgres
		globalStore, err = postgres.Connect(ctx, postgres.Options{
			Host:           pgCfg.Host,
			Port:           pgCfg.Port,
			Username:       pgCfg.Username,
			Password:       pgCfg.Password,
			Database:       pgCfg.Database,
			SSLMode:        pgCfg.SSLMode,
			ConnectTimeout: pgCfg.ConnectTimeout,
			PingTimeout:    pgCfg.PingTimeout,
		})
		if err == nil {
			globalLogger.Info().
				Str("host", pgCfg.Host).
				Int("port", pgCfg.Port).
				Msg("connected to postgres")
		}
	case storage.DriverSQLite:
		globalStore, err = sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err == nil {
			globalLogger.Info().
				Str("path", cfg.Storage.SQLitePath).
				Msg("opened sqlite database")
		}
	default:
		err = fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("driver", cfg.Storage.Driver).
			Msg("failed to open storage")
		panic(err)
	}

	err = globalStore.Migrate(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to migrate storage")
		panic(err)
	}
	globalLogger.Info().Msg("migrated storage")
}

func CloseStorage() {
	err := globalStore.Close()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to close storage")
		return
	}
	globalLogger.Info().Msg("closed storage")
}

// MustBootstrapAdmin registers the configured admin user if it is missing.
func MustBootstrapAdmin() {
	adminCfg := config.Global().Admin
	if adminCfg.Username == "" {
		return
	}

	_, err := newAuthService().Register(context.Background(), adminCfg.Username, adminCfg.Password)
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			globalLogger.Debug().
				Str("username", adminCfg.Username).
				Msg("admin user already exists")
			return
		}
		globalLogger.Error().
			Err(err).
			Msg("failed to bootstrap admin user")
		panic(err)
	}
}

// MustCreateUser registers a single user for the createuser command.
func MustCreateUser(username, password string) {
	user, err := newAuthService().Register(context.Background(), username, password)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Str("username", username).
			Msg("failed to create user")
		panic(err)
	}
	globalLogger.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("created user")
}

func newAuthService() services.AuthService {
	jwtCfg := config.Global().JWT
	return services.NewAuthService(
		componentLogger("auth"),
		globalStore,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
	)
}
