package dto

// Action is the fixed vocabulary of webhook outcomes. Every 200 response
// carries exactly one of these; the platform must never retry a drop, so
// drops are tagged successes, not errors.
type Action string

const (
	ActionCallbackEnqueued          Action = "callback_enqueued"
	ActionInvoiceCommandEnqueued    Action = "invoice_command_enqueued"
	ActionJoinCommandEnqueued       Action = "join_command_enqueued"
	ActionChatMessageEnqueued       Action = "chat_message_enqueued"
	ActionOnboardingMessageEnqueued Action = "onboarding_message_enqueued"
	ActionPhotoEnqueued             Action = "photo_enqueued"
	ActionDocumentEnqueued          Action = "document_enqueued"

	ActionIgnoredCommand             Action = "ignored_command"
	ActionIgnoredUnsupportedDocument Action = "ignored_unsupported_document"
	ActionRejectedSizeLimit          Action = "rejected_size_limit"
	ActionIgnoredRateLimited         Action = "ignored_rate_limited"
	ActionIgnored                    Action = "ignored"
)

type WebhookResponse struct {
	OK       bool   `json:"ok"`
	Action   Action `json:"action"`
	TaskName string `json:"task_name,omitempty"`
}
