package cli

import (
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/hoyo-tech/hoyo-client/internal/api"
	"github.com/hoyo-tech/hoyo-client/internal/auth"
	"github.com/hoyo-tech/hoyo-client/internal/config"
	"github.com/hoyo-tech/hoyo-client/internal/session"
)

// app bundles the wired SDK for one command invocation.
type app struct {
	cfg    *config.Config
	store  session.Store
	client *api.Client
	ctrl   *auth.Controller
	logger zerolog.Logger
}

// newApp loads configuration and constructs the session store, API client,
// and auth controller. The unauthorized hook surfaces the forced "redirect"
// as a terminal hint instead of a navigation.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := applyFileConfig(cfg, configFile); err != nil {
			return nil, err
		}
	} else if path, pathErr := defaultConfigPath(); pathErr == nil {
		// A missing default config file is fine; env defaults apply.
		if applyErr := applyFileConfig(cfg, path); applyErr != nil && !os.IsNotExist(applyErr) {
			return nil, applyErr
		}
	}

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		sessionPath, err = session.DefaultSessionPath()
		if err != nil {
			return nil, err
		}
	}
	store := session.NewFileStore(sessionPath)

	logger := zerolog.Nop()
	if os.Getenv("HOYO_DEBUG") != "" {
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}

	client := api.NewClient(cfg.APIBaseURL, store,
		api.WithLogger(logger),
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithUnauthorizedHook(func() {
			errorLabel.Fprintln(os.Stderr, "Session expired; run \"hoyo login\" to sign in again.")
		}),
	)

	nav := auth.NavigatorFunc(func(path string) {
		logger.Debug().Str("path", path).Msg("navigation requested")
	})
	ctrl := auth.NewController(client, store, nav, logger)

	return &app{cfg: cfg, store: store, client: client, ctrl: ctrl, logger: logger}, nil
}

// requireSession fails fast when no token is stored, so commands can give a
// clear message instead of a server 401.
func (a *app) requireSession() error {
	if _, ok := a.store.Token(); !ok {
		return errNotSignedIn
	}
	return nil
}
