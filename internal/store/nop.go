package store

import (
	"context"
	"time"

	"github.com/amishk599/talentscout/internal/model"
)

// NopStore discards every interview. It is used when archiving is disabled.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Save(_ context.Context, _ model.InterviewRecord) error { return nil }

func (s *NopStore) List(_ context.Context, _ int) ([]model.InterviewRecord, error) { return nil, nil }

func (s *NopStore) Cleanup(_ context.Context, _ time.Duration) (int64, error) { return 0, nil }
