package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	mock_repository "github.com/DanRulev/vocadrill/internal/repository/mock"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKVMock(t *testing.T, ctrl *gomock.Controller, setupMock func(*mock_repository.MockQueryI)) *KVR {
	db := mock_repository.NewMockQueryI(ctrl)
	if setupMock != nil {
		setupMock(db)
	}

	return &KVR{db: db, now: func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }}
}

func TestKVR_Get(t *testing.T) {
	t.Parallel()

	type args struct {
		ctx context.Context
		key string
	}
	tests := []struct {
		name    string
		args    args
		f       func(*mock_repository.MockQueryI)
		want    []byte
		wantErr error
	}{
		{
			name: "success",
			args: args{ctx: context.Background(), key: "progress/1"},
			f: func(mqi *mock_repository.MockQueryI) {
				var payload string
				mqi.EXPECT().GetContext(gomock.Any(), gomock.AssignableToTypeOf(&payload), gomock.Any(), "progress/1").
					DoAndReturn(func(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
						*dest.(*string) = `{"version":1}`
						return nil
					})
			},
			want: []byte(`{"version":1}`),
		},
		{
			name: "not found",
			args: args{ctx: context.Background(), key: "missing"},
			f: func(mqi *mock_repository.MockQueryI) {
				mqi.EXPECT().GetContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name: "db error",
			args: args{ctx: context.Background(), key: "k"},
			f: func(mqi *mock_repository.MockQueryI) {
				mqi.EXPECT().GetContext(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("any"),
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := newKVMock(t, ctrl, tt.f)

			got, err := repo.Get(tt.args.ctx, tt.args.key)
			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrNotFound) {
					assert.ErrorIs(t, err, ErrNotFound)
				} else {
					assert.NotErrorIs(t, err, ErrNotFound)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKVR_Put(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		f       func(*mock_repository.MockQueryI)
		wantErr bool
	}{
		{
			name: "success",
			f: func(mqi *mock_repository.MockQueryI) {
				mqi.EXPECT().ExecContext(gomock.Any(), gomock.Any(), "k", "v", gomock.Any()).Return(nil, nil)
			},
		},
		{
			name: "error exec",
			f: func(mqi *mock_repository.MockQueryI) {
				mqi.EXPECT().ExecContext(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("error exec"))
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := newKVMock(t, ctrl, tt.f)

			err := repo.Put(context.Background(), "k", []byte("v"))
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestKVR_Delete(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := newKVMock(t, ctrl, func(mqi *mock_repository.MockQueryI) {
		mqi.EXPECT().ExecContext(gomock.Any(), gomock.Any(), "k").Return(nil, nil)
	})

	require.NoError(t, repo.Delete(context.Background(), "k"))
}
