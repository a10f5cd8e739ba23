package store

import (
	"context"
	"time"
)

// ApprovalStore exposes the external chat-approval state. Read-only from the
// ingress side; approvals are granted elsewhere.
type ApprovalStore interface {
	IsApproved(ctx context.Context, chatID int64) (bool, error)
}

// AttemptStatus describes a chat's onboarding-attempt counter. Used only for
// logging; downstream workers never see it.
type AttemptStatus struct {
	Attempts int
	ResetIn  time.Duration
}

// RateLimitStore exposes the external onboarding abuse counter. The ingress
// only reads it; increments on failed onboarding attempts happen in the
// worker.
type RateLimitStore interface {
	IsLimited(ctx context.Context, chatID int64) (bool, error)
	Status(ctx context.Context, chatID int64) (AttemptStatus, error)
}
