package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/guard"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/models"
	"github.com/DenisKhanov/LightsBot/internal/lights_bot/repository"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminID    int64 = 1001
	strangerID int64 = 666
	chatID     int64 = 5005
	messageID        = 77
)

type fakeSender struct {
	sent       []tgbotapi.Chattable
	requested  []tgbotapi.Chattable
	sendErr    error
	requestErr func(c tgbotapi.Chattable) error
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{MessageID: messageID}, s.sendErr
}

func (s *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.requested = append(s.requested, c)
	if s.requestErr != nil {
		if err := s.requestErr(c); err != nil {
			return nil, err
		}
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *fakeSender) edits() []tgbotapi.EditMessageTextConfig {
	var edits []tgbotapi.EditMessageTextConfig
	for _, c := range s.requested {
		if edit, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			edits = append(edits, edit)
		}
	}
	return edits
}

type fakePublisher struct {
	commands []models.Command
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, cmd models.Command) error {
	if p.err != nil {
		return p.err
	}
	p.commands = append(p.commands, cmd)
	return nil
}

type fixture struct {
	bot       *LightsBot
	sender    *fakeSender
	publisher *fakePublisher
	repo      *repository.UsersState
	metrics   *Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sender:    &fakeSender{},
		publisher: &fakePublisher{},
		repo:      repository.NewUsersStateMap(filepath.Join(t.TempDir(), "stages.json")),
		metrics:   NewMetrics(prometheus.NewRegistry()),
	}
	f.bot = NewLightsBot(f.publisher, f.repo, f.sender, guard.NewAllowList(adminID), f.metrics)
	return f
}

func (f *fixture) stage(t *testing.T, userID int64) models.Stage {
	t.Helper()
	stage, err := f.repo.GetStage(context.Background(), models.ConversationKey{ChatID: chatID, UserID: userID})
	if errors.Is(err, models.ErrStageNotFound) {
		return models.StageNone
	}
	require.NoError(t, err)
	return stage
}

func (f *fixture) setStage(t *testing.T, stage models.Stage) {
	t.Helper()
	require.NoError(t, f.repo.StoreStage(context.Background(), models.ConversationKey{ChatID: chatID, UserID: adminID}, stage, ""))
}

func startUpdate(userID int64) *tgbotapi.Update {
	return &tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 1,
			From:      &tgbotapi.User{ID: userID},
			Chat:      &tgbotapi.Chat{ID: chatID},
			Text:      "/start",
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
		},
	}
}

func callbackUpdate(userID int64, data string) *tgbotapi.Update {
	return &tgbotapi.Update{
		UpdateID: 2,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: userID},
			Message: &tgbotapi.Message{
				MessageID: messageID,
				Chat:      &tgbotapi.Chat{ID: chatID},
			},
			Data: data,
		},
	}
}

func buttonCodes(markup interface{}) []string {
	var codes []string
	var keyboard tgbotapi.InlineKeyboardMarkup
	switch m := markup.(type) {
	case tgbotapi.InlineKeyboardMarkup:
		keyboard = m
	case *tgbotapi.InlineKeyboardMarkup:
		keyboard = *m
	default:
		return nil
	}
	for _, row := range keyboard.InlineKeyboard {
		for _, b := range row {
			codes = append(codes, *b.CallbackData)
		}
	}
	return codes
}

func TestStartShowsMainMenu(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), startUpdate(adminID)))

	require.Len(t, f.sender.sent, 1)
	msg, ok := f.sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, chatID, msg.ChatID)
	assert.Equal(t, "Choose an action", msg.Text)
	assert.Equal(t, []string{"#state#", "#effect#", "#brightness#"}, buttonCodes(msg.ReplyMarkup))

	assert.Equal(t, models.StageMain, f.stage(t, adminID))
	assert.Empty(t, f.publisher.commands)
}

func TestStartReentersMainFromAnyStage(t *testing.T) {
	f := newFixture(t)
	f.setStage(t, models.StageBrightness)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), startUpdate(adminID)))
	assert.Equal(t, models.StageMain, f.stage(t, adminID))
}

func TestStartWithBotMention(t *testing.T) {
	f := newFixture(t)
	update := startUpdate(adminID)
	update.Message.Text = "/start@LightsBot"
	update.Message.Entities[0].Length = len(update.Message.Text)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), update))
	assert.Equal(t, models.StageMain, f.stage(t, adminID))
}

func TestPlainTextIsIgnored(t *testing.T) {
	f := newFixture(t)
	update := startUpdate(adminID)
	update.Message.Text = "hello"
	update.Message.Entities = nil

	require.NoError(t, f.bot.HandleUpdate(context.Background(), update))
	assert.Empty(t, f.sender.sent)
	assert.Equal(t, models.StageNone, f.stage(t, adminID))
}

func TestSelectEffectOpensEffectsMenu(t *testing.T) {
	f := newFixture(t)
	f.setStage(t, models.StageMain)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#effect#")))

	require.Len(t, f.sender.requested, 2)
	answer, ok := f.sender.requested[0].(tgbotapi.CallbackConfig)
	require.True(t, ok)
	assert.Equal(t, "cb-1", answer.CallbackQueryID)

	edits := f.sender.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, "Choose an effect", edits[0].Text)
	assert.Equal(t, chatID, edits[0].ChatID)
	assert.Equal(t, messageID, edits[0].MessageID)
	assert.Contains(t, buttonCodes(edits[0].ReplyMarkup), "#EFF-MATRIX#")

	assert.Equal(t, models.StageEffect, f.stage(t, adminID))
	assert.Empty(t, f.publisher.commands)
}

func TestSelectEffectPublishesCommand(t *testing.T) {
	f := newFixture(t)
	f.setStage(t, models.StageEffect)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#EFF-MATRIX#")))

	assert.Equal(t, []models.Command{models.EffectCommand("matrix")}, f.publisher.commands)
	assert.Equal(t, models.StageEffect, f.stage(t, adminID))
	edits := f.sender.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, "Choose an effect", edits[0].Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Commands.WithLabelValues("effect")))
}

func TestSelectBrightnessPublishesCommand(t *testing.T) {
	f := newFixture(t)
	f.setStage(t, models.StageBrightness)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#BRI-255#")))

	assert.Equal(t, []models.Command{models.BrightnessCommand(255)}, f.publisher.commands)
	assert.Equal(t, models.StageBrightness, f.stage(t, adminID))
}

func TestSelectStateOnOff(t *testing.T) {
	f := newFixture(t)
	f.setStage(t, models.StageState)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#ON#")))
	require.NoError(t, f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#OFF#")))

	assert.Equal(t, []models.Command{models.StateCommand(true), models.StateCommand(false)}, f.publisher.commands)
	assert.Equal(t, models.StageState, f.stage(t, adminID))
}

func TestMalformedBrightnessIsNoop(t *testing.T) {
	f := newFixture(t)
	f.setStage(t, models.StageBrightness)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#BRI-999abc#")))

	assert.Empty(t, f.publisher.commands)
	assert.Empty(t, f.sender.edits())
	assert.Equal(t, models.StageBrightness, f.stage(t, adminID))
}

func TestBackReturnsToMainFromEveryStage(t *testing.T) {
	for _, stage := range []models.Stage{models.StageMain, models.StageState, models.StageEffect, models.StageBrightness} {
		t.Run(string(stage), func(t *testing.T) {
			f := newFixture(t)
			f.setStage(t, stage)

			require.NoError(t, f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#menu#")))

			assert.Equal(t, models.StageMain, f.stage(t, adminID))
			assert.Empty(t, f.publisher.commands)
			edits := f.sender.edits()
			require.Len(t, edits, 1)
			assert.Equal(t, "Choose an action", edits[0].Text)
		})
	}
}

func TestCallbackBeforeStartIsIgnored(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#state#")))

	assert.Empty(t, f.sender.edits())
	assert.Equal(t, models.StageNone, f.stage(t, adminID))
}

func TestUnauthorizedUserGetsNothing(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), startUpdate(strangerID)))
	require.NoError(t, f.bot.HandleUpdate(context.Background(), callbackUpdate(strangerID, "#ON#")))

	assert.Empty(t, f.sender.sent)
	assert.Empty(t, f.sender.requested)
	assert.Empty(t, f.publisher.commands)
	assert.Equal(t, models.StageNone, f.stage(t, strangerID))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Denied.WithLabelValues(guard.ReasonUnauthorized)))
}

func TestUpdateWithoutIdentityIsDropped(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.bot.HandleUpdate(context.Background(), &tgbotapi.Update{UpdateID: 3}))

	assert.Empty(t, f.sender.sent)
	assert.Empty(t, f.sender.requested)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Denied.WithLabelValues(guard.ReasonNoIdentity)))
}

func TestInlineQueryIsAccepted(t *testing.T) {
	f := newFixture(t)
	update := &tgbotapi.Update{InlineQuery: &tgbotapi.InlineQuery{ID: "q", From: &tgbotapi.User{ID: adminID}}}

	require.NoError(t, f.bot.HandleUpdate(context.Background(), update))
	assert.Empty(t, f.sender.requested)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Updates.WithLabelValues("inline")))
}

func TestNotModifiedEditIsNotAFailure(t *testing.T) {
	f := newFixture(t)
	f.setStage(t, models.StageEffect)
	f.sender.requestErr = func(c tgbotapi.Chattable) error {
		if _, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			return &tgbotapi.Error{Code: 400, Message: "Bad Request: message is not modified: specified new message content and reply markup are exactly the same"}
		}
		return nil
	}

	require.NoError(t, f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#EFF-SNOW#")))
	assert.Equal(t, []models.Command{models.EffectCommand("snow")}, f.publisher.commands)
	assert.Equal(t, models.StageEffect, f.stage(t, adminID))
}

func TestPublishFailureFailsUpdate(t *testing.T) {
	f := newFixture(t)
	f.setStage(t, models.StageState)
	f.publisher.err = errors.New("broker down")

	err := f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#ON#"))
	assert.ErrorIs(t, err, f.publisher.err)
	assert.Empty(t, f.sender.edits())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Failures))
}

func TestRenderFailureKeepsStage(t *testing.T) {
	f := newFixture(t)
	f.setStage(t, models.StageMain)
	renderErr := &tgbotapi.Error{Code: 400, Message: "Bad Request: message to edit not found"}
	f.sender.requestErr = func(c tgbotapi.Chattable) error {
		if _, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			return renderErr
		}
		return nil
	}

	err := f.bot.HandleUpdate(context.Background(), callbackUpdate(adminID, "#brightness#"))
	assert.Error(t, err)
	assert.Equal(t, models.StageMain, f.stage(t, adminID))
}

func TestStartSendFailureKeepsStage(t *testing.T) {
	f := newFixture(t)
	f.sender.sendErr = errors.New("network")

	assert.Error(t, f.bot.HandleUpdate(context.Background(), startUpdate(adminID)))
	assert.Equal(t, models.StageNone, f.stage(t, adminID))
}

func TestInlineMessageCallbackEditsByInlineID(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repo.StoreStage(context.Background(), models.ConversationKey{ChatID: adminID, UserID: adminID}, models.StageMain, ""))

	update := &tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:              "cb-2",
		From:            &tgbotapi.User{ID: adminID},
		InlineMessageID: "inline-1",
		Data:            "#state#",
	}}
	require.NoError(t, f.bot.HandleUpdate(context.Background(), update))

	edits := f.sender.edits()
	require.Len(t, edits, 1)
	assert.Equal(t, "inline-1", edits[0].InlineMessageID)
	assert.Equal(t, "Choose a state", edits[0].Text)
}
