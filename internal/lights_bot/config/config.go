// Package config loads the bot configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Publisher kinds.
const (
	PublisherIoT  = "iot"
	PublisherMQTT = "mqtt"
)

// Stage store kinds.
const (
	StageStoreFile  = "file"
	StageStoreRedis = "redis"
)

// DefaultEnvFile is the dotenv file read before the environment is parsed.
const DefaultEnvFile = "bot.env"

// Config holds the application configuration parameters.
// Each field corresponds to an expected environment variable.
type Config struct {
	EnvLogsLevel   string `env:"LOG_LEVEL" envDefault:"info"`               // Log level for the application (e.g., debug, info)
	EnvLogFileName string `env:"LOG_FILE_NAME" envDefault:"lightsBot.log"` // File's name for log
	EnvBotToken    string `env:"TOKEN_BOT"`                                // Telegram Bot Token for authentication with the Telegram API
	EnvAdmins      string `env:"LIST_OF_ADMINS"`                           // Comma separated Telegram user IDs allowed to use the bot

	EnvCommandTopic string `env:"COMMAND_TOPIC" envDefault:"diy/christmas-lights/command"` // Topic the lights controller subscribes to
	EnvPublisher    string `env:"PUBLISHER" envDefault:"iot"`                              // iot or mqtt
	EnvIoTEndpoint  string `env:"IOT_ENDPOINT"`                                            // AWS IoT data endpoint, empty for SDK default
	EnvAWSRegion    string `env:"AWS_REGION"`                                              // AWS region, empty for SDK default chain
	EnvMQTTBroker   string `env:"MQTT_BROKER" envDefault:"tcp://localhost:1883"`           // MQTT broker URL
	EnvMQTTUsername string `env:"MQTT_USERNAME"`
	EnvMQTTPassword string `env:"MQTT_PASSWORD"`
	EnvMQTTClientID string `env:"MQTT_CLIENT_ID" envDefault:"lights-bot"`

	EnvStageStore    string        `env:"STAGE_STORE" envDefault:"file"`                 // file or redis
	EnvStoragePath   string        `env:"FILE_STORAGE_PATH" envDefault:"stages.json"`    // File for the conversation stages snapshot
	EnvRedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`        // Redis address for shared stage storage
	EnvRedisPassword string        `env:"REDIS_PASSWORD"`
	EnvRedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	EnvStageTTL      time.Duration `env:"STAGE_TTL" envDefault:"24h"` // Expiration of idle conversations in Redis

	EnvHTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`     // Listen address of the webhook server
	EnvWebhookPath string `env:"WEBHOOK_PATH" envDefault:"/webhook"` // Route receiving Telegram updates
	EnvWebhookURL  string `env:"WEBHOOK_URL"`                      // Public URL registered with Telegram
}

// NewConfig loads DefaultEnvFile if it exists and parses the environment.
func NewConfig() (*Config, error) {
	return Load(DefaultEnvFile)
}

// Load reads the optional dotenv file and parses the environment into a Config.
// Variables already present in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load %s: %w", envFile, err)
			}
			logrus.Debugf("env file %s not found, using process environment", envFile)
		}
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	if c.EnvBotToken == "" {
		return errors.New("TOKEN_BOT is required")
	}
	switch c.EnvPublisher {
	case PublisherIoT, PublisherMQTT:
	default:
		return fmt.Errorf("unknown PUBLISHER %q", c.EnvPublisher)
	}
	switch c.EnvStageStore {
	case StageStoreFile, StageStoreRedis:
	default:
		return fmt.Errorf("unknown STAGE_STORE %q", c.EnvStageStore)
	}
	if c.EnvCommandTopic == "" {
		return errors.New("COMMAND_TOPIC must not be empty")
	}
	return nil
}
