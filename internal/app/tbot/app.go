package tbot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	botLambda "github.com/DenisKhanov/LightsBot/internal/lights_bot/api/lambda"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/config"
	"github.com/DenisKhanov/LightsBot/internal/logcfg"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const (
	snapshotInterval = 5 * time.Minute
	shutdownTimeout  = 10 * time.Second
)

// App represents the application structure responsible for initializing dependencies
// and running the lights bot in one of its modes.
type App struct {
	serviceProvider *ServiceProvider // The service provider for dependency injection
	config          *config.Config   // The configuration object for the application
	envFile         string           // Optional dotenv file read before the environment
}

// NewApp creates a new instance of the application.
//
// Arguments:
//   - ctx: the context for dependency initialization
//   - envFile: optional dotenv file, skipped when it does not exist
func NewApp(ctx context.Context, envFile string) (*App, error) {
	app := &App{envFile: envFile}
	err := app.initDeps(ctx)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// initDeps initializes all dependencies required by the application.
func (a *App) initDeps(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initServiceProvider,
	}

	for _, f := range inits {
		err := f(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

// initConfig initializes the application configuration and the logger.
func (a *App) initConfig(_ context.Context) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	a.config = cfg
	if err = logcfg.RunLoggerConfig(a.config.EnvLogsLevel, a.config.EnvLogFileName); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}
	return nil
}

// initServiceProvider initializes the service provider for dependency injection.
func (a *App) initServiceProvider(_ context.Context) error {
	a.serviceProvider = NewServiceProvider(a.config)
	return nil
}

// RunWebhook serves Telegram updates over HTTP until SIGINT or SIGTERM.
func (a *App) RunWebhook(ctx context.Context) error {
	defer a.serviceProvider.Close()

	router, err := a.serviceProvider.HTTPHandler(ctx)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              a.config.EnvHTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logrus.Infof("Webhook server listening on %s%s", a.config.EnvHTTPAddr, a.config.EnvWebhookPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	for {
		select {
		case sig := <-signalChan:
			logrus.Infof("Received %v signal, shutting down server...", sig)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err = server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			return nil
		case <-ticker.C:
			a.serviceProvider.SnapshotStages()
		case err = <-serverErr:
			if err != nil {
				return fmt.Errorf("webhook server: %w", err)
			}
			return nil
		}
	}
}

// RunPolling receives updates through long polling until SIGINT or SIGTERM.
func (a *App) RunPolling(ctx context.Context) error {
	defer a.serviceProvider.Close()

	myBot, err := a.serviceProvider.BotService(ctx)
	if err != nil {
		return err
	}
	botAPI, err := a.serviceProvider.BotAPI()
	if err != nil {
		return err
	}
	logrus.Infof("Bot API created successfully for %s", botAPI.Self.UserName)

	// long polling and a registered webhook exclude each other
	if _, err = botAPI.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logrus.WithError(err).Warn("Failed to delete webhook before polling")
	}

	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60 // seconds timeout
	updates := botAPI.GetUpdatesChan(updateConfig)
	defer botAPI.StopReceivingUpdates()

	for {
		select {
		case sig := <-signalChan:
			logrus.Infof("Received %v signal, shutting down bot...", sig)
			return nil
		case <-ticker.C:
			a.serviceProvider.SnapshotStages()
		case update, ok := <-updates:
			if !ok {
				return errors.New("telegram update chan closed")
			}
			// ошибка уже залогирована сервисом, продолжаем получать обновления
			_ = myBot.HandleUpdate(ctx, &update)
		}
	}
}

// SetWebhook registers the configured public URL with Telegram.
func (a *App) SetWebhook(_ context.Context) error {
	if a.config.EnvWebhookURL == "" {
		return errors.New("WEBHOOK_URL is required")
	}
	botAPI, err := a.serviceProvider.BotAPI()
	if err != nil {
		return err
	}

	webhook, err := tgbotapi.NewWebhook(a.config.EnvWebhookURL)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}
	webhook.AllowedUpdates = []string{"message", "callback_query", "inline_query", "chosen_inline_result"}
	if _, err = botAPI.Request(webhook); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}

	info, err := botAPI.GetWebhookInfo()
	if err != nil {
		return fmt.Errorf("get webhook info: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"url":     info.URL,
		"pending": info.PendingUpdateCount,
	}).Info("Webhook registered")
	return nil
}

// LambdaHandler builds the handler used by the Lambda runtime. The
// dependencies stay open for the lifetime of the execution environment.
func (a *App) LambdaHandler(ctx context.Context) (*botLambda.Handler, error) {
	return a.serviceProvider.LambdaHandler(ctx)
}
