// Package http exposes the Telegram webhook, health and metrics routes.
package http

import (
	"context"
	"io"
	"net/http"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes limits the size of an update body.
const maxBodyBytes = 1 << 20

// UpdateHandler processes a decoded Telegram update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *tgbotapi.Update) error
}

// Handler serves Telegram webhook requests.
type Handler struct {
	bot UpdateHandler
}

// NewHandler creates a webhook handler for bot.
func NewHandler(bot UpdateHandler) *Handler {
	return &Handler{bot: bot}
}

// Webhook decodes the update from the request body and processes it.
// It answers 200 "OK" on success and 500 with an empty body otherwise.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		logrus.WithError(err).Error("Failed to read webhook body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	update, err := service.DecodeUpdate(body)
	if err != nil {
		logrus.WithError(err).Warn("Malformed webhook body")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err = h.bot.HandleUpdate(r.Context(), update); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err = w.Write([]byte("OK")); err != nil {
		logrus.WithError(err).Error("Failed to write webhook response")
	}
}

// Healthz answers liveness probes.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter wires the webhook, health and metrics routes.
// metrics may be nil to skip the /metrics route.
func NewRouter(h *Handler, webhookPath string, metrics http.Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(LogrusLog())

	router.Post(webhookPath, h.Webhook)
	router.Get("/healthz", h.Healthz)
	if metrics != nil {
		router.Handle("/metrics", metrics)
	}
	return router
}
