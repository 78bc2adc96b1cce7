package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DanRulev/vocadrill/internal/history"
	"github.com/DanRulev/vocadrill/internal/models"
)

const (
	sessionLogVersion         = 1
	defaultSessionLogCapacity = 100
)

type sessionLogBlob struct {
	Version int                   `json:"version"`
	Logs    []models.ABSessionLog `json:"logs"`
}

type SessionLogR struct {
	kv       KV
	capacity int
}

func NewSessionLogRepository(kv KV, capacity int) *SessionLogR {
	if capacity <= 0 {
		capacity = defaultSessionLogCapacity
	}
	return &SessionLogR{kv: kv, capacity: capacity}
}

func sessionLogKey(userID int64) string {
	return fmt.Sprintf("ab_logs/%d", userID)
}

// SessionLogs returns the stored logs of a user, oldest first.
func (s *SessionLogR) SessionLogs(ctx context.Context, userID int64) ([]models.ABSessionLog, error) {
	data, err := s.kv.Get(ctx, sessionLogKey(userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []models.ABSessionLog{}, nil
		}
		return nil, err
	}

	var blob sessionLogBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return []models.ABSessionLog{}, nil
	}

	return blob.Logs, nil
}

// AppendSessionLogs adds entries to the capped log, dropping the oldest.
func (s *SessionLogR) AppendSessionLogs(ctx context.Context, userID int64, entries ...models.ABSessionLog) error {
	if len(entries) == 0 {
		return nil
	}

	logs, err := s.SessionLogs(ctx, userID)
	if err != nil {
		return err
	}

	ring := history.NewRing[models.ABSessionLog](s.capacity)
	for _, l := range logs {
		ring.Append(l)
	}
	for _, l := range entries {
		ring.Append(l)
	}

	data, err := json.Marshal(sessionLogBlob{Version: sessionLogVersion, Logs: ring.Items()})
	if err != nil {
		return fmt.Errorf("failed to encode session logs: %w", err)
	}

	return s.kv.Put(ctx, sessionLogKey(userID), data)
}
