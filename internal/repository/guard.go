package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DanRulev/vocadrill/internal/experiment"
)

const guardKey = "guard_state"

type GuardR struct {
	kv KV
}

func NewGuardRepository(kv KV) *GuardR {
	return &GuardR{kv: kv}
}

func (g *GuardR) LoadGuardState(ctx context.Context) (experiment.GuardState, error) {
	empty := experiment.GuardState{Version: experiment.GuardStateVersion, Entries: map[string]experiment.GuardEntry{}}

	data, err := g.kv.Get(ctx, guardKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return empty, nil
		}
		return empty, err
	}

	var state experiment.GuardState
	if err := json.Unmarshal(data, &state); err != nil {
		return empty, fmt.Errorf("failed to decode guard state: %w", err)
	}
	if state.Entries == nil {
		state.Entries = map[string]experiment.GuardEntry{}
	}

	return state, nil
}

func (g *GuardR) SaveGuardState(ctx context.Context, state experiment.GuardState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode guard state: %w", err)
	}

	return g.kv.Put(ctx, guardKey, data)
}
