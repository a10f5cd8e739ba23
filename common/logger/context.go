package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Fields flow through context enrichment, so handler code never has
// to repeat chat_id/update_id on every log statement.
type LogFields struct {
	DeliveryID *int64  // Snowflake ID for one webhook delivery
	UpdateID   *int64  // Platform update identifier
	ChatID     *int64  // Chat the event originated from
	MessageID  *int64  // Message identifier within the chat
	Intent     *string // Classified intent
	TaskName   *string // Deterministic task identity, once dispatched
	Component  string  // Component name (e.g., "ingress.dispatch.queued")
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
// Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.DeliveryID != nil {
		result.DeliveryID = next.DeliveryID
	}
	if next.UpdateID != nil {
		result.UpdateID = next.UpdateID
	}
	if next.ChatID != nil {
		result.ChatID = next.ChatID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.Intent != nil {
		result.Intent = next.Intent
	}
	if next.TaskName != nil {
		result.TaskName = next.TaskName
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{ChatID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate truncates a string to maxLen characters, appending "..." if truncated.
// Useful for logging potentially long strings like message text.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
