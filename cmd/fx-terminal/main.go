package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/apexmarkets/fx-terminal/internal/api"
	"github.com/apexmarkets/fx-terminal/internal/config"
	"github.com/apexmarkets/fx-terminal/internal/engine"
	"github.com/apexmarkets/fx-terminal/internal/instruments"
	"github.com/apexmarkets/fx-terminal/internal/logger"
	"github.com/apexmarkets/fx-terminal/internal/model"
	"github.com/apexmarkets/fx-terminal/internal/server"
	"github.com/apexmarkets/fx-terminal/internal/session"
	"github.com/joho/godotenv"
)

const (
	_terminalCfgFilePath = "./configs/terminal.yaml"
)

func main() {
	zapLogger, loggerSync, err := logger.NewZapLogger(logger.Debug)
	if err != nil {
		log.Fatalf("%s: can't init logger", err)
	}
	defer loggerSync()

	if err := godotenv.Load(); err != nil {
		zapLogger.Warnf("can't detect .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadTerminalConfig(_terminalCfgFilePath)
	if err != nil {
		zapLogger.Fatalf("%s: can't load terminal cfg", err)
	}

	store, err := session.Open(cfg.Store.Path, zapLogger)
	if err != nil {
		zapLogger.Fatalf("%s: can't open session store", err)
	}
	defer store.Close()

	apiClient := api.NewClient(cfg.API, zapLogger)
	defer apiClient.Close()

	user, token, err := restoreOrLogin(ctx, store, apiClient, zapLogger)
	if err != nil {
		zapLogger.Fatalf("%s: can't authenticate", err)
	}
	apiClient.SetToken(token)
	zapLogger.Infof("authenticated as %s", user.Email)

	set := instruments.NewSet(model.DefaultInstruments())
	eng := engine.NewEngine(cfg.Engine, apiClient, set, store, zapLogger)
	eng.SetUser(user)

	go func() {
		if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Errorf("%s: engine stopped", err)
		}
	}()

	if _, err := eng.LoadAccounts(ctx); err != nil {
		zapLogger.Errorf("%s: can't load trading accounts", err)
	}

	srv := server.NewHTTPServer(ctx, cfg.Server.Port, eng, set, zapLogger)
	zapLogger.Infof("status server listening on :%s", cfg.Server.Port)
	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zapLogger.Errorf("%s: status server stopped", err)
	}
}

// restoreOrLogin reuses the stored session when its token is still alive,
// otherwise logs in with credentials from the environment and persists the
// fresh session.
func restoreOrLogin(ctx context.Context, store *session.Store, apiClient *api.Client, l logger.Logger) (model.User, string, error) {
	user, token, err := store.Load()
	if err == nil {
		return user, token, nil
	}
	if !errors.Is(err, session.NoSessionError) && !errors.Is(err, session.SessionExpiredError) {
		return model.User{}, "", err
	}
	l.Infof("%s: logging in", err)

	creds := config.LoadCredentialsFromEnv()
	if creds.Email == "" || creds.Password == "" {
		return model.User{}, "", errors.New("no stored session and no credentials in env")
	}

	user, token, err = apiClient.Login(ctx, api.LoginRequest{
		Email:    creds.Email,
		Password: creds.Password,
	})
	if err != nil {
		return model.User{}, "", err
	}

	if err := store.Save(user, token); err != nil {
		l.Warnf("%s: can't persist session", err)
	}
	return user, token, nil
}
