// Package tbot provides dependency injection and service management for the lights bot components.
// It initializes and provides access to the publisher, stage storage, Telegram API and handlers.
package tbot

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/api"
	botHTTP "github.com/DenisKhanov/LightsBot/internal/lights_bot/api/http"
	botLambda "github.com/DenisKhanov/LightsBot/internal/lights_bot/api/lambda"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/config"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/guard"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/repository"
	botServ "github.com/DenisKhanov/LightsBot/internal/lights_bot/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// stageStore is a stage repository holding resources released on shutdown.
type stageStore interface {
	botServ.StageRepository
	Close() error
}

// publisher is a command publisher holding a connection released on shutdown.
type publisher interface {
	botServ.Publisher
	Close() error
}

// ServiceProvider manages the dependency injection for the lights bot components.
type ServiceProvider struct {
	config *config.Config

	publisher  publisher
	stages     stageStore
	botAPI     *tgbotapi.BotAPI
	botService *botServ.LightsBot
	registry   *prometheus.Registry
	metrics    *botServ.Metrics

	publisherOnce  sync.Once
	stagesOnce     sync.Once
	botAPIOnce     sync.Once
	botServiceOnce sync.Once
	metricsOnce    sync.Once
}

// NewServiceProvider creates a new instance of the service provider.
func NewServiceProvider(cfg *config.Config) *ServiceProvider {
	return &ServiceProvider{config: cfg}
}

// Publisher returns the command publisher selected by configuration.
func (s *ServiceProvider) Publisher(ctx context.Context) (botServ.Publisher, error) {
	var err error
	s.publisherOnce.Do(func() {
		switch s.config.EnvPublisher {
		case config.PublisherMQTT:
			opts := api.MQTTClientOptions(s.config.EnvMQTTBroker, s.config.EnvMQTTUsername, s.config.EnvMQTTPassword, s.config.EnvMQTTClientID)
			s.publisher, err = api.NewMQTTPublisher(opts, s.config.EnvCommandTopic)
		default:
			s.publisher, err = api.NewIoTDataPublisher(ctx, s.config.EnvAWSRegion, s.config.EnvIoTEndpoint, s.config.EnvCommandTopic)
		}
		if err != nil {
			logrus.Errorf("Failed to initialize %s publisher: %v", s.config.EnvPublisher, err)
			s.publisher = nil
			return
		}
		logrus.Infof("%s publisher initialized for topic %s", s.config.EnvPublisher, s.config.EnvCommandTopic)
	})
	if s.publisher == nil {
		return nil, fmt.Errorf("publisher not initialized: %w", err)
	}
	return s.publisher, nil
}

// StageRepository returns the conversation stage storage selected by configuration.
func (s *ServiceProvider) StageRepository(ctx context.Context) (botServ.StageRepository, error) {
	var err error
	s.stagesOnce.Do(func() {
		switch s.config.EnvStageStore {
		case config.StageStoreRedis:
			store := repository.NewRedisStages(s.config.EnvRedisAddr, s.config.EnvRedisPassword, s.config.EnvRedisDB,
				repository.WithTTL(s.config.EnvStageTTL))
			if err = store.Ping(ctx); err != nil {
				_ = store.Close()
				logrus.WithError(err).Error("Failed to connect to redis")
				return
			}
			s.stages = store
			logrus.Infof("Redis stage repository initialized at %s", s.config.EnvRedisAddr)
		default:
			store := repository.NewUsersStateMap(s.config.EnvStoragePath)
			if err = store.ReadFileToMemory(); err != nil {
				logrus.Errorf("Failed to read user state from file: %v", err)
			}
			// a corrupt snapshot must not keep the bot down
			err = nil
			s.stages = store
			logrus.Info("File stage repository initialized")
		}
	})
	if s.stages == nil {
		return nil, fmt.Errorf("stage repository not initialized: %w", err)
	}
	return s.stages, nil
}

// SnapshotStages saves the file stage repository; other stores are left alone.
func (s *ServiceProvider) SnapshotStages() {
	store, ok := s.stages.(*repository.UsersState)
	if !ok {
		return
	}
	if err := store.SaveBatchToFile(); err != nil {
		logrus.Error("Error while saving state: ", err)
	}
}

// BotAPI returns the Telegram Bot API instance.
func (s *ServiceProvider) BotAPI() (*tgbotapi.BotAPI, error) {
	var err error
	s.botAPIOnce.Do(func() {
		s.botAPI, err = tgbotapi.NewBotAPI(s.config.EnvBotToken)
		if err != nil {
			logrus.Errorf("Failed to initialize BotAPI: %v", err)
			s.botAPI = nil
		}
	})
	if s.botAPI == nil {
		return nil, fmt.Errorf("bot API not initialized: %w", err)
	}
	return s.botAPI, nil
}

// Metrics returns the bot collectors and the registry they belong to.
func (s *ServiceProvider) Metrics() (*botServ.Metrics, *prometheus.Registry) {
	s.metricsOnce.Do(func() {
		s.registry = prometheus.NewRegistry()
		s.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		s.metrics = botServ.NewMetrics(s.registry)
	})
	return s.metrics, s.registry
}

// MetricsHandler serves the registry in the Prometheus exposition format.
func (s *ServiceProvider) MetricsHandler() http.Handler {
	_, registry := s.Metrics()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// BotService returns the main lights bot service.
func (s *ServiceProvider) BotService(ctx context.Context) (*botServ.LightsBot, error) {
	botAPI, err := s.BotAPI()
	if err != nil {
		return nil, err
	}
	pub, err := s.Publisher(ctx)
	if err != nil {
		return nil, err
	}
	stages, err := s.StageRepository(ctx)
	if err != nil {
		return nil, err
	}
	metrics, _ := s.Metrics()

	s.botServiceOnce.Do(func() {
		admins := guard.ParseAllowList(s.config.EnvAdmins)
		if admins.Len() == 0 {
			logrus.Warn("LIST_OF_ADMINS is empty, every update will be denied")
		}
		s.botService = botServ.NewLightsBot(pub, stages, botAPI, admins, metrics)
		logrus.Infof("BotService initialized with %d admins", admins.Len())
	})
	return s.botService, nil
}

// HTTPHandler returns the webhook router.
func (s *ServiceProvider) HTTPHandler(ctx context.Context) (http.Handler, error) {
	bot, err := s.BotService(ctx)
	if err != nil {
		return nil, err
	}
	return botHTTP.NewRouter(botHTTP.NewHandler(bot), s.config.EnvWebhookPath, s.MetricsHandler()), nil
}

// LambdaHandler returns the AWS Lambda handler.
func (s *ServiceProvider) LambdaHandler(ctx context.Context) (*botLambda.Handler, error) {
	bot, err := s.BotService(ctx)
	if err != nil {
		return nil, err
	}
	return botLambda.NewHandler(bot), nil
}

// Close releases the publisher and the stage storage.
func (s *ServiceProvider) Close() {
	if s.stages != nil {
		if err := s.stages.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close stage repository")
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close publisher")
		}
	}
}
