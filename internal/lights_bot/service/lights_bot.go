// Package service provides the core logic of the lights bot: it routes
// Telegram updates through the access guard and the conversation state
// machine, publishes light commands and renders the menus.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/constant"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/guard"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/machine"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Sender is the part of the Telegram Bot API used to answer users.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Publisher delivers a command to the lights controller topic.
type Publisher interface {
	Publish(ctx context.Context, cmd models.Command) error
}

// StageRepository stores the current stage of every conversation.
type StageRepository interface {
	GetStage(ctx context.Context, key models.ConversationKey) (models.Stage, error)
	StoreStage(ctx context.Context, key models.ConversationKey, stage models.Stage, callbackQueryData string) error
}

// LightsBot is the main service struct of the bot, integrating all dependencies.
type LightsBot struct {
	Machine    *machine.Machine // Conversation state machine
	Publisher  Publisher        // Command publisher
	Repository StageRepository  // Conversation stage storage
	Bot        Sender           // Telegram Bot API
	Metrics    *Metrics         // Prometheus collectors

	onMessage  guard.HandlerFunc
	onCallback guard.HandlerFunc
	onInline   guard.HandlerFunc
	onOther    guard.HandlerFunc
}

// NewLightsBot creates a LightsBot with every entry point wrapped by the access guard.
// Arguments:
//   - publisher: delivers commands to the lights controller.
//   - repository: conversation stage storage.
//   - bot: Telegram Bot API instance.
//   - allowed: users permitted to operate the bot.
//   - metrics: Prometheus collectors, nil for unregistered ones.
//
// Returns a pointer to a LightsBot.
func NewLightsBot(publisher Publisher, repository StageRepository, bot Sender, allowed guard.AllowList, metrics *Metrics) *LightsBot {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	b := &LightsBot{
		Machine:    machine.New(),
		Publisher:  publisher,
		Repository: repository,
		Bot:        bot,
		Metrics:    metrics,
	}

	g := guard.New(allowed, guard.WithDenyHook(func(reason string) {
		metrics.Denied.WithLabelValues(reason).Inc()
	}))
	b.onMessage = g.Wrap(b.handleMessage)
	b.onCallback = g.Wrap(b.handleCallback)
	b.onInline = g.Wrap(b.ignore)
	b.onOther = g.Wrap(b.ignore)
	return b
}

// HandleUpdate processes a single Telegram update. Updates dropped by the
// guard and unknown selections are not errors; a failed publish or render is.
func (b *LightsBot) HandleUpdate(ctx context.Context, update *tgbotapi.Update) error {
	var (
		kind    string
		handler guard.HandlerFunc
	)
	switch {
	case update.Message != nil:
		kind, handler = "message", b.onMessage
	case update.CallbackQuery != nil:
		kind, handler = "callback_query", b.onCallback
	case update.InlineQuery != nil, update.ChosenInlineResult != nil:
		kind, handler = "inline", b.onInline
	default:
		kind, handler = "other", b.onOther
	}
	b.Metrics.Updates.WithLabelValues(kind).Inc()

	if err := handler(ctx, update); err != nil {
		b.Metrics.Failures.Inc()
		logrus.WithError(err).WithField("update_id", update.UpdateID).Error("Failed to process update")
		return err
	}
	return nil
}

// handleMessage reacts to the /start command, the conversation entry point.
func (b *LightsBot) handleMessage(ctx context.Context, update *tgbotapi.Update) error {
	message := update.Message
	if !message.IsCommand() || message.Command() != constant.COMMAND_START {
		logrus.Debugf("Ignoring message %q", message.Text)
		return nil
	}
	return b.start(ctx, message)
}

// start (re-)enters the main menu whatever the current stage is.
func (b *LightsBot) start(ctx context.Context, message *tgbotapi.Message) error {
	key := messageKey(message)
	stage := b.Machine.Start()
	menu, _ := b.Machine.Menu(stage)

	msg := tgbotapi.NewMessage(key.ChatID, menu.Title)
	msg.ReplyMarkup = keyboard(menu)
	if _, err := b.Bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send main menu to chat %d: %w", key.ChatID, err)
	}

	if err := b.Repository.StoreStage(ctx, key, stage, message.Text); err != nil {
		return fmt.Errorf("failed to store stage: %w", err)
	}
	b.Metrics.Transitions.WithLabelValues(string(stage)).Inc()
	logrus.Infof("Conversation %s started", key)
	return nil
}

// handleCallback dispatches an inline keyboard selection in the current stage.
func (b *LightsBot) handleCallback(ctx context.Context, update *tgbotapi.Update) error {
	query := update.CallbackQuery
	key := callbackKey(query)

	stage, err := b.Repository.GetStage(ctx, key)
	if err != nil && !errors.Is(err, models.ErrStageNotFound) {
		return fmt.Errorf("failed to load stage of %s: %w", key, err)
	}

	res := b.Machine.Select(stage, query.Data)

	if _, err = b.Bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		return fmt.Errorf("failed to answer callback query: %w", err)
	}

	if !res.Handled {
		logrus.WithFields(logrus.Fields{
			"conversation": key.String(),
			"stage":        string(stage),
			"data":         query.Data,
		}).Debug("Ignoring unknown option")
		return nil
	}

	if res.Command != nil {
		if err = b.Publisher.Publish(ctx, *res.Command); err != nil {
			return fmt.Errorf("failed to publish %s: %w", res.Command, err)
		}
		b.Metrics.Commands.WithLabelValues(res.Command.Kind()).Inc()
	}

	menu, _ := b.Machine.Menu(res.Next)
	if _, err = b.Bot.Request(editMenu(query, menu)); err != nil {
		if !isNotModified(err) {
			return fmt.Errorf("failed to render %s menu: %w", res.Next, err)
		}
		logrus.Debugf("Menu %s already shown", res.Next)
	}

	if err = b.Repository.StoreStage(ctx, key, res.Next, query.Data); err != nil {
		return fmt.Errorf("failed to store stage: %w", err)
	}
	b.Metrics.Transitions.WithLabelValues(string(res.Next)).Inc()
	return nil
}

// ignore accepts updates the bot has no handler for.
func (b *LightsBot) ignore(_ context.Context, update *tgbotapi.Update) error {
	logrus.Debugf("No handler for update %d", update.UpdateID)
	return nil
}

func messageKey(message *tgbotapi.Message) models.ConversationKey {
	key := models.ConversationKey{}
	if message.From != nil {
		key.UserID = message.From.ID
		key.ChatID = message.From.ID
	}
	if message.Chat != nil {
		key.ChatID = message.Chat.ID
	}
	return key
}

func callbackKey(query *tgbotapi.CallbackQuery) models.ConversationKey {
	key := models.ConversationKey{}
	if query.From != nil {
		key.UserID = query.From.ID
		key.ChatID = query.From.ID
	}
	if query.Message != nil && query.Message.Chat != nil {
		key.ChatID = query.Message.Chat.ID
	}
	return key
}
