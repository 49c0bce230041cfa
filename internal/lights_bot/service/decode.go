package service

import (
	"encoding/json"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrEmptyUpdate is returned for an empty update body.
var ErrEmptyUpdate = errors.New("empty update body")

// DecodeUpdate parses a Telegram update delivered by a webhook.
func DecodeUpdate(body []byte) (*tgbotapi.Update, error) {
	if len(body) == 0 {
		return nil, ErrEmptyUpdate
	}
	var update tgbotapi.Update
	if err := json.Unmarshal(body, &update); err != nil {
		return nil, fmt.Errorf("failed to decode update: %w", err)
	}
	return &update, nil
}
