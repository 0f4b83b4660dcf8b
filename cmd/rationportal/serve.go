package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/rationportal/internal/api"
	"github.com/terraincognita07/rationportal/internal/cli"
	"github.com/terraincognita07/rationportal/internal/config"
	"github.com/terraincognita07/rationportal/internal/i18n"
	"go.uber.org/zap"
)

const (
	shutdownTimeout = 10 * time.Second
	uploadBodyLimit = 16 * 1024 * 1024
)

func runServe(cmd *cobra.Command, configFile string) error {
	cfg, log, err := loadConfig(cmd, configFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if prompt, _ := cmd.Flags().GetBool("prompt-code"); prompt && cfg.AdminPassword == "" {
		code, err := cli.PromptAccessCode(os.Stdin, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		cfg.AdminPassword = code
	}
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	port, err := config.ResolvePort(cfg.Port)
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage, cfg.LocalesDir)
	if err != nil {
		return err
	}

	handler, err := api.NewHandler(store, api.HandlerConfig{
		SecretKey:     cfg.SecretKey,
		AdminPassword: cfg.AdminPassword,
		TemplateDir:   cfg.TemplatesDir,
		CookieSecure:  cfg.CookieSecure,
		ImportMode:    importMode(cfg),
		I18n:          i18nManager,
		Logger:        log,
	})
	if err != nil {
		return err
	}

	app := newApp(handler, cfg)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("rationportal listening",
		zap.String("addr", "0.0.0.0:"+port),
		zap.String("backend", cfg.Store.Backend),
		zap.Bool("import_row_by_row", cfg.Import.RowByRow),
	)
	return app.Listen(":" + port)
}

func newApp(handler *api.Handler, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Lalas",
		DisableStartupMessage: true,
		BodyLimit:             uploadBodyLimit,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cfg.CookieSecure)))

	app.Static("/static", cfg.StaticDir)
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "form:csrf_token",
		CookieName:     "ration_csrf",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
		Next:           skipCSRF,
	}
}

// skipCSRF lets JSON API calls through. A cross-site form cannot send an
// application/json body or a PATCH/DELETE without a CORS preflight.
func skipCSRF(c *fiber.Ctx) bool {
	if !strings.HasPrefix(c.Path(), "/api/") {
		return false
	}
	switch c.Method() {
	case fiber.MethodPatch, fiber.MethodDelete:
		return true
	}
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}
