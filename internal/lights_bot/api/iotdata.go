// Package api provides the publishers delivering light commands to the
// controller: AWS IoT Data Plane and a plain MQTT broker.
package api

import (
	"context"
	"fmt"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/sirupsen/logrus"
)

// IoTDataAPI is the part of the IoT Data Plane client used by the publisher.
type IoTDataAPI interface {
	Publish(ctx context.Context, params *iotdataplane.PublishInput, optFns ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error)
}

// IoTDataPublisher publishes commands through the AWS IoT Data Plane API.
type IoTDataPublisher struct {
	client IoTDataAPI
	topic  string
}

// NewIoTDataPublisher loads the default AWS configuration and creates a publisher.
// Arguments:
//   - region: AWS region, empty to use the SDK default chain.
//   - endpoint: account specific IoT data endpoint, empty for the SDK default.
//   - topic: topic the lights controller subscribes to.
//
// Returns a pointer to an IoTDataPublisher.
func NewIoTDataPublisher(ctx context.Context, region, endpoint, topic string) (*IoTDataPublisher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := iotdataplane.NewFromConfig(cfg, func(o *iotdataplane.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewIoTDataPublisherFromClient(client, topic), nil
}

// NewIoTDataPublisherFromClient wraps an existing IoT Data Plane client.
func NewIoTDataPublisherFromClient(client IoTDataAPI, topic string) *IoTDataPublisher {
	return &IoTDataPublisher{client: client, topic: topic}
}

// Publish sends the command to the topic with QoS 0.
func (p *IoTDataPublisher) Publish(ctx context.Context, cmd models.Command) error {
	payload, err := cmd.Payload()
	if err != nil {
		return err
	}

	_, err = p.client.Publish(ctx, &iotdataplane.PublishInput{
		Topic:   aws.String(p.topic),
		Payload: payload,
		Qos:     0,
	})
	if err != nil {
		logrus.WithError(err).Errorf("Failed to publish %s to %s", cmd, p.topic)
		return fmt.Errorf("failed to publish to iot topic %s: %w", p.topic, err)
	}
	logrus.Infof("Published %s to %s", payload, p.topic)
	return nil
}

// Close is a no-op, the HTTP based client holds no connection.
func (p *IoTDataPublisher) Close() error {
	return nil
}
