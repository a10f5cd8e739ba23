package gate

import (
	"context"
	"fmt"
	"log/slog"

	"paperdesk.app/ingress/common/logger"
	"paperdesk.app/ingress/internal/store"
)

// Route is where conversational text goes after the approval check. There is
// no third outcome: an unapproved chat is routed to onboarding, never dropped.
type Route string

const (
	RouteTrusted    Route = "trusted"
	RouteOnboarding Route = "onboarding"
)

// Gate is the approval and rate-limit decision point. It holds no state of
// its own; both stores are external and provide their own consistency.
type Gate struct {
	approvals store.ApprovalStore
	limits    store.RateLimitStore
}

func New(approvals store.ApprovalStore, limits store.RateLimitStore) *Gate {
	return &Gate{
		approvals: approvals,
		limits:    limits,
	}
}

// RouteText decides the path for conversational text from the given chat.
func (g *Gate) RouteText(ctx context.Context, chatID int64) (Route, error) {
	approved, err := g.approvals.IsApproved(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("checking chat approval: %w", err)
	}
	if approved {
		return RouteTrusted, nil
	}
	return RouteOnboarding, nil
}

// AllowOnboard is the pre-dispatch check for onboarding command attempts.
// A blocked chat gets a silent drop upstream; nothing in the response
// distinguishes "blocked" from "processing", so an attacker learns nothing.
// The attempt counter is incremented by the worker on failed attempts only.
func (g *Gate) AllowOnboard(ctx context.Context, chatID int64) (bool, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ingress.gate"})

	limited, err := g.limits.IsLimited(ctx, chatID)
	if err != nil {
		return false, fmt.Errorf("checking onboarding rate limit: %w", err)
	}
	if !limited {
		return true, nil
	}

	if status, serr := g.limits.Status(ctx, chatID); serr == nil {
		slog.InfoContext(ctx, "onboarding attempt blocked",
			"attempts", status.Attempts,
			"reset_in", status.ResetIn,
		)
	} else {
		slog.InfoContext(ctx, "onboarding attempt blocked")
	}
	return false, nil
}
