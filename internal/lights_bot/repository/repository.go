// Package repository provides conversation stage storage for the lights bot.
// UsersState keeps stages in memory and persists them to a file, RedisStages
// shares them between processes.
package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/DenisKhanov/LightsBot/internal/lights_bot/models"
	"github.com/sirupsen/logrus"
)

// UsersState manages the conversation stages of bot users in memory and on disk.
type UsersState struct {
	BatchBuffer     map[string]*models.UserState `json:"batchBuffer"` // In-memory store of user states by conversation key.
	storageFilePath string                       // File path for persisting user states.
	mu              *sync.RWMutex                // Protects BatchBuffer from concurrent access
}

// NewUsersStateMap creates a new UsersState instance with an empty memory buffer.
// Arguments:
//   - envStoragePath: file path where user states are persisted.
//
// Returns a pointer to a UsersState.
func NewUsersStateMap(envStoragePath string) *UsersState {
	return &UsersState{
		BatchBuffer:     make(map[string]*models.UserState),
		storageFilePath: envStoragePath,
		mu:              &sync.RWMutex{},
	}
}

// GetStage returns the stage of a conversation or models.ErrStageNotFound.
func (m *UsersState) GetStage(_ context.Context, key models.ConversationKey) (models.Stage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.BatchBuffer[key.String()]
	if !ok || state == nil {
		return models.StageNone, models.ErrStageNotFound
	}
	return state.CurrentStage, nil
}

// StoreStage updates or creates the state of a conversation.
// Arguments:
//   - key: chat and user of the conversation.
//   - stage: the menu now shown.
//   - callbackQueryData: the option code that led to the stage.
func (m *UsersState) StoreStage(_ context.Context, key models.ConversationKey, stage models.Stage, callbackQueryData string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.BatchBuffer[key.String()] = &models.UserState{
		ChatID:       key.ChatID,
		UserID:       key.UserID,
		CurrentStage: stage,
		LastCallback: callbackQueryData,
	}
	return nil
}

// Len returns the number of stored conversations.
func (m *UsersState) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.BatchBuffer)
}

// ReadFileToMemory reads user states from the storage file into the in-memory buffer.
// A missing or empty file leaves the buffer empty.
// Returns an error if the file cannot be read or parsed.
func (m *UsersState) ReadFileToMemory() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.storageFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Infof("Storage file %s does not exist, starting with empty buffer", m.storageFilePath)
			return nil
		}
		err = fmt.Errorf("failed to read storage file %s: %w", m.storageFilePath, err)
		logrus.WithError(err).Error("Error reading storage file")
		return err
	}

	if len(data) == 0 {
		logrus.Infof("Storage file %s is empty, starting with empty buffer", m.storageFilePath)
		return nil
	}

	var buffer map[string]*models.UserState
	if err = json.Unmarshal(data, &buffer); err != nil {
		err = fmt.Errorf("failed to unmarshal storage file %s: %w", m.storageFilePath, err)
		logrus.WithError(err).Error("Error parsing storage file")
		return err
	}
	if buffer == nil {
		buffer = make(map[string]*models.UserState)
	}

	m.BatchBuffer = buffer
	logrus.Infof("Loaded %d user states from %s", len(m.BatchBuffer), m.storageFilePath)
	return nil
}

// SaveBatchToFile persists the in-memory user state buffer to the storage file.
// Returns an error if the file cannot be written.
func (m *UsersState) SaveBatchToFile() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	startTime := time.Now()

	// Write to a temporary file first
	tempPath := m.storageFilePath + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		err = fmt.Errorf("failed to open temp file %s: %w", tempPath, err)
		logrus.WithError(err).Error("Error saving batch to file")
		return err
	}

	writer := bufio.NewWriter(file)
	encoder := json.NewEncoder(writer)
	if err = encoder.Encode(m.BatchBuffer); err != nil {
		_ = file.Close()
		err = fmt.Errorf("failed to encode batch to temp file %s: %w", tempPath, err)
		logrus.WithError(err).Error("Error encoding batch")
		return err
	}
	if err = writer.Flush(); err != nil {
		_ = file.Close()
		err = fmt.Errorf("failed to flush temp file %s: %w", tempPath, err)
		logrus.WithError(err).Error("Error flushing batch")
		return err
	}
	if err = file.Close(); err != nil {
		err = fmt.Errorf("failed to close temp file %s: %w", tempPath, err)
		logrus.WithError(err).Error("Error closing batch file")
		return err
	}

	// Atomically rename a temp file to final destination
	if err = os.Rename(tempPath, m.storageFilePath); err != nil {
		err = fmt.Errorf("failed to rename temp file %s to %s: %w", tempPath, m.storageFilePath, err)
		logrus.WithError(err).Error("Error finalizing batch save")
		return err
	}

	logrus.Infof("Saved %d user states to %s in %v", len(m.BatchBuffer), m.storageFilePath, time.Since(startTime))
	return nil
}

// Close flushes the buffer to disk.
func (m *UsersState) Close() error {
	return m.SaveBatchToFile()
}
