package models

import (
	"errors"
	"strconv"
)

// Stage is the name of the menu currently shown in a conversation.
type Stage string

const (
	StageNone       Stage = "" // Conversation not started
	StageMain       Stage = "main"
	StageState      Stage = "state"
	StageEffect     Stage = "effect"
	StageBrightness Stage = "brightness"
)

// Valid reports whether s is one of the menu stages.
func (s Stage) Valid() bool {
	switch s {
	case StageMain, StageState, StageEffect, StageBrightness:
		return true
	}
	return false
}

// UserState is the stored conversation state of one chat member.
type UserState struct {
	ChatID       int64  `json:"chatID"`       // Идентификатор чата
	UserID       int64  `json:"userID"`       // Telegram user ID
	CurrentStage Stage  `json:"currentStage"` // Текущий этап диалога с пользователем
	LastCallback string `json:"lastCallback"` // Last option code selected in the chat
}

// ErrStageNotFound is returned by stage repositories for unknown conversations.
var ErrStageNotFound = errors.New("stage not found")

// ConversationKey identifies a conversation: one user inside one chat.
type ConversationKey struct {
	ChatID int64
	UserID int64
}

// String renders the key as "chatID:userID".
func (k ConversationKey) String() string {
	return strconv.FormatInt(k.ChatID, 10) + ":" + strconv.FormatInt(k.UserID, 10)
}
