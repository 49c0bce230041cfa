package api

import (
	"context"
	"fmt"
	"time"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/models"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

// DefaultPublishTimeout bounds the wait for the MQTT client to hand a message off.
const DefaultPublishTimeout = 10 * time.Second

// MQTTClientOptions builds paho options for a broker.
// Arguments:
//   - broker: broker URL (e.g., tcp://192.168.1.10:1883).
//   - username, password: broker credentials, may be empty.
//   - clientID: MQTT client identifier.
func MQTTClientOptions(broker, username, password, clientID string) *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(client mqtt.Client, err error) {
			logrus.WithError(err).Warn("MQTT connection lost")
		}).
		SetReconnectingHandler(func(client mqtt.Client, opts *mqtt.ClientOptions) {
			logrus.Info("MQTT reconnecting")
		})
}

// MQTTPublisher publishes commands to an MQTT broker.
type MQTTPublisher struct {
	client  mqtt.Client
	topic   string
	timeout time.Duration
}

// NewMQTTPublisher connects to the broker described by opts.
// Returns an error if the connection cannot be established.
func NewMQTTPublisher(opts *mqtt.ClientOptions, topic string) (*MQTTPublisher, error) {
	client := mqtt.NewClient(opts)
	if t := client.Connect(); t.Wait() && t.Error() != nil {
		return nil, fmt.Errorf("MQTT connection error: %w", t.Error())
	}
	logrus.Infof("Connected to MQTT broker, publishing to %s", topic)
	return NewMQTTPublisherFromClient(client, topic), nil
}

// NewMQTTPublisherFromClient wraps a connected client.
func NewMQTTPublisherFromClient(client mqtt.Client, topic string) *MQTTPublisher {
	return &MQTTPublisher{
		client:  client,
		topic:   topic,
		timeout: DefaultPublishTimeout,
	}
}

// Publish sends the command to the topic with QoS 0, not retained.
func (p *MQTTPublisher) Publish(ctx context.Context, cmd models.Command) error {
	payload, err := cmd.Payload()
	if err != nil {
		return err
	}

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	t := p.client.Publish(p.topic, 0, false, payload)
	if !t.WaitTimeout(timeout) {
		err = fmt.Errorf("MQTT publish to %s timed out after %v", p.topic, timeout)
		logrus.WithError(err).Error("Failed to publish command")
		return err
	}
	if err = t.Error(); err != nil {
		logrus.WithError(err).Errorf("Failed to publish %s to %s", cmd, p.topic)
		return fmt.Errorf("MQTT publish failed: %w", err)
	}
	logrus.Infof("Published %s to %s", payload, p.topic)
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() error {
	p.client.Disconnect(250)
	return nil
}
