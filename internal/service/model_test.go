package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DanRulev/vocadrill/internal/confidence"
	"github.com/DanRulev/vocadrill/internal/repository"
	mock_service "github.com/DanRulev/vocadrill/internal/service/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newModelServiceMock(t *testing.T, ctrl *gomock.Controller, model *confidence.Model, setupMock func(*mock_service.MockRepositoryI)) *ModelS {
	repo := mock_service.NewMockRepositoryI(ctrl)
	if setupMock != nil {
		setupMock(repo)
	}
	return NewModelService(model, repo, zap.NewNop())
}

func trainedModel(t *testing.T) *confidence.Model {
	t.Helper()
	m := confidence.NewModel(confidence.ModelConfig{MinSamples: 2})
	require.NoError(t, m.Train([]confidence.Sample{
		{Features: confidence.Features{WasCorrect: true, ResponseTimeMs: 1000}, Correct: true},
		{Features: confidence.Features{WasCorrect: false, ResponseTimeMs: 9000}, Correct: false},
	}))
	return m
}

func TestModelS_LoadModel(t *testing.T) {
	t.Parallel()

	snapshot, err := trainedModel(t).MarshalSnapshot()
	require.NoError(t, err)

	tests := []struct {
		name      string
		f         func(*mock_service.MockRepositoryI)
		wantReady bool
	}{
		{
			name: "restored",
			f: func(repo *mock_service.MockRepositoryI) {
				repo.EXPECT().LoadModel(gomock.Any()).Return(snapshot, nil)
			},
			wantReady: true,
		},
		{
			name: "not stored yet",
			f: func(repo *mock_service.MockRepositoryI) {
				repo.EXPECT().LoadModel(gomock.Any()).Return(nil, repository.ErrNotFound)
			},
		},
		{
			name: "corrupt snapshot",
			f: func(repo *mock_service.MockRepositoryI) {
				repo.EXPECT().LoadModel(gomock.Any()).Return([]byte("{broken"), nil)
			},
		},
		{
			name: "store error",
			f: func(repo *mock_service.MockRepositoryI) {
				repo.EXPECT().LoadModel(gomock.Any()).Return(nil, errors.New("db down"))
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			model := confidence.NewModel(confidence.ModelConfig{MinSamples: 2})
			m := newModelServiceMock(t, ctrl, model, tt.f)

			m.LoadModel(context.Background())
			assert.Equal(t, tt.wantReady, model.Ready())
		})
	}
}

func TestModelS_PersistModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		model   func(t *testing.T) *confidence.Model
		f       func(*mock_service.MockRepositoryI)
		wantErr bool
	}{
		{
			name:  "success",
			model: trainedModel,
			f: func(repo *mock_service.MockRepositoryI) {
				repo.EXPECT().SaveModel(gomock.Any(), gomock.Not(gomock.Nil())).Return(nil)
			},
		},
		{
			name:  "too large is dropped",
			model: trainedModel,
			f: func(repo *mock_service.MockRepositoryI) {
				repo.EXPECT().SaveModel(gomock.Any(), gomock.Any()).Return(repository.ErrBlobTooLarge)
			},
		},
		{
			name:  "store error",
			model: trainedModel,
			f: func(repo *mock_service.MockRepositoryI) {
				repo.EXPECT().SaveModel(gomock.Any(), gomock.Any()).Return(errors.New("write failed"))
			},
			wantErr: true,
		},
		{
			name:  "disabled model",
			model: func(*testing.T) *confidence.Model { return nil },
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			m := newModelServiceMock(t, ctrl, tt.model(t), tt.f)

			err := m.PersistModel(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
