package api

import (
	"context"
	"errors"
	"testing"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIoTData struct {
	inputs []*iotdataplane.PublishInput
	err    error
}

func (f *fakeIoTData) Publish(_ context.Context, params *iotdataplane.PublishInput, _ ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &iotdataplane.PublishOutput{}, nil
}

func TestIoTDataPublisherPublish(t *testing.T) {
	client := &fakeIoTData{}
	p := NewIoTDataPublisherFromClient(client, "diy/christmas-lights/command")

	require.NoError(t, p.Publish(context.Background(), models.EffectCommand("matrix")))
	require.Len(t, client.inputs, 1)
	assert.Equal(t, "diy/christmas-lights/command", aws.ToString(client.inputs[0].Topic))
	assert.JSONEq(t, `{"effect":"matrix"}`, string(client.inputs[0].Payload))
	assert.Equal(t, int32(0), client.inputs[0].Qos)
	assert.NoError(t, p.Close())
}

func TestIoTDataPublisherError(t *testing.T) {
	boom := errors.New("throttled")
	p := NewIoTDataPublisherFromClient(&fakeIoTData{err: boom}, "lights")

	err := p.Publish(context.Background(), models.StateCommand(true))
	assert.ErrorIs(t, err, boom)
}
