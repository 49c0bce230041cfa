// Package lambda adapts the bot to AWS Lambda behind an API Gateway proxy
// integration: one invocation handles one Telegram update.
package lambda

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/service"
	"github.com/aws/aws-lambda-go/events"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// UpdateHandler processes a decoded Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update) error
}

// Handler is the Lambda function handler.
type Handler struct {
	bot UpdateHandler
}

// NewHandler creates a Lambda handler for bot.
func NewHandler(bot UpdateHandler) *Handler {
	return &Handler{bot: bot}
}

// Handle processes the update carried in the request body. Failures are
// reported through the status code, the invocation itself never errors so
// the gateway does not retry it.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body, err := requestBody(req)
	if err != nil {
		logrus.WithError(err).Warn("Malformed invocation body")
		return internalError(), nil
	}

	update, err := service.DecodeUpdate(body)
	if err != nil {
		logrus.WithError(err).Warn("Malformed invocation body")
		return internalError(), nil
	}

	if err = h.bot.HandleUpdate(ctx, update); err != nil {
		return internalError(), nil
	}
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK, Body: "OK"}, nil
}

func requestBody(req events.APIGatewayProxyRequest) ([]byte, error) {
	if !req.IsBase64Encoded {
		return []byte(req.Body), nil
	}
	body, err := base64.StdEncoding.DecodeString(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 body: %w", err)
	}
	return body, nil
}

func internalError() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}
}
