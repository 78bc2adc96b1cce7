package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DanRulev/vocadrill/internal/models"
	"go.uber.org/zap"
)

const progressVersion = 1

type progressBlob struct {
	Version int                        `json:"version"`
	Items   map[string]json.RawMessage `json:"items"`
}

type ProgressR struct {
	kv  KV
	log *zap.Logger
}

func NewProgressRepository(kv KV, log *zap.Logger) *ProgressR {
	return &ProgressR{kv: kv, log: log}
}

func progressKey(userID int64) string {
	return fmt.Sprintf("progress/%d", userID)
}

// LoadProgress returns the whole progress map of a user. A missing map is
// empty; malformed records are replaced with new ones.
func (p *ProgressR) LoadProgress(ctx context.Context, userID int64) (map[string]models.WordProgress, error) {
	out := make(map[string]models.WordProgress)

	data, err := p.kv.Get(ctx, progressKey(userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return out, nil
		}
		return out, err
	}

	var blob progressBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		p.log.Warn("progress blob is malformed, starting over",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return out, nil
	}
	if blob.Version > progressVersion {
		p.log.Warn("progress blob has a newer version, starting over",
			zap.Int64("user_id", userID),
			zap.Int("version", blob.Version))
		return out, nil
	}

	for id, raw := range blob.Items {
		var wp models.WordProgress
		if err := json.Unmarshal(raw, &wp); err != nil {
			p.log.Warn("progress record is malformed, treating as new",
				zap.Int64("user_id", userID),
				zap.String("item_id", id),
				zap.Error(err))
			out[id] = models.NewWordProgress(id)
			continue
		}
		wp.ItemID = id
		wp.Normalize()
		out[id] = wp
	}

	return out, nil
}

func (p *ProgressR) SaveProgress(ctx context.Context, userID int64, progress map[string]models.WordProgress) error {
	blob := progressBlob{
		Version: progressVersion,
		Items:   make(map[string]json.RawMessage, len(progress)),
	}
	for id, wp := range progress {
		raw, err := json.Marshal(wp)
		if err != nil {
			return fmt.Errorf("failed to encode progress of %s: %w", id, err)
		}
		blob.Items[id] = raw
	}

	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	return p.kv.Put(ctx, progressKey(userID), data)
}
