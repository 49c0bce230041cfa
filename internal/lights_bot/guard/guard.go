// Package guard restricts the bot to a fixed list of Telegram users.
// Updates from anybody else are dropped without a reply so the bot does not
// reveal that it exists.
package guard

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Reasons reported to the deny hook.
const (
	ReasonNoIdentity   = "no_identity"
	ReasonUnauthorized = "unauthorized"
)

// HandlerFunc processes a single Telegram update.
type HandlerFunc func(ctx context.Context, update *tgbotapi.Update) error

// AllowList is the immutable set of user IDs permitted to use the bot.
type AllowList struct {
	ids map[int64]struct{}
}

// NewAllowList creates an allow-list from ids.
func NewAllowList(ids ...int64) AllowList {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return AllowList{ids: set}
}

// ParseAllowList parses a comma separated list of user IDs.
// Entries that are not plain numbers are skipped.
func ParseAllowList(csv string) AllowList {
	var ids []int64
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			logrus.WithError(err).Warnf("Skipping admin id %q", part)
			continue
		}
		ids = append(ids, id)
	}
	return NewAllowList(ids...)
}

// Contains reports whether id is allowed.
func (a AllowList) Contains(id int64) bool {
	_, ok := a.ids[id]
	return ok
}

// Len returns the number of allowed users.
func (a AllowList) Len() int {
	return len(a.ids)
}

// ActorID returns the ID of the user that produced the update. The message,
// inline query, chosen inline result and callback query senders are checked
// in that order and the first one present wins.
func ActorID(update *tgbotapi.Update) (int64, bool) {
	if update == nil {
		return 0, false
	}
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.InlineQuery != nil && update.InlineQuery.From != nil:
		return update.InlineQuery.From.ID, true
	case update.ChosenInlineResult != nil && update.ChosenInlineResult.From != nil:
		return update.ChosenInlineResult.From.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID, true
	}
	return 0, false
}

// Option configures a Guard.
type Option func(*Guard)

// WithDenyHook registers a callback invoked for every dropped update.
func WithDenyHook(hook func(reason string)) Option {
	return func(g *Guard) {
		g.onDeny = hook
	}
}

// Guard is a middleware applied to every bot entry point.
type Guard struct {
	allowed AllowList
	onDeny  func(reason string)
}

// New creates a guard for the allow-list.
func New(allowed AllowList, opts ...Option) *Guard {
	g := &Guard{allowed: allowed}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Allowed reports whether the update comes from an allow-listed user.
func (g *Guard) Allowed(update *tgbotapi.Update) bool {
	userID, ok := ActorID(update)
	if !ok {
		logrus.WithFields(logrus.Fields{
			"audit":     true,
			"update_id": updateID(update),
		}).Warn("No user_id available in update")
		g.deny(ReasonNoIdentity)
		return false
	}
	if !g.allowed.Contains(userID) {
		logrus.WithFields(logrus.Fields{
			"audit":     true,
			"user_id":   userID,
			"update_id": updateID(update),
		}).Warnf("Unauthorized access denied for %d", userID)
		g.deny(ReasonUnauthorized)
		return false
	}
	return true
}

// Wrap returns a handler that calls next only for allow-listed users.
// Dropped updates are not errors.
func (g *Guard) Wrap(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, update *tgbotapi.Update) error {
		if !g.Allowed(update) {
			return nil
		}
		return next(ctx, update)
	}
}

func (g *Guard) deny(reason string) {
	if g.onDeny != nil {
		g.onDeny(reason)
	}
}

func updateID(update *tgbotapi.Update) int {
	if update == nil {
		return 0
	}
	return update.UpdateID
}
