package dispatch

import (
	"fmt"

	"paperdesk.app/ingress/internal/extract"
)

// Kind names the downstream work a task carries. It selects the worker
// sub-endpoint and prefixes the task identity.
type Kind string

const (
	KindCallback Kind = "callback"
	KindInvoice  Kind = "invoice"
	KindJoin     Kind = "join"
	KindChat     Kind = "chat"
	KindOnboard  Kind = "onboard"
	KindPhoto    Kind = "photo"
	KindDocument Kind = "document"
)

// TaskRequest is one unit of dispatchable work: a kind, a deterministic
// identity, and the normalized payload. Two deliveries of the same logical
// event must build the same identity; that determinism is the entire
// idempotence mechanism.
type TaskRequest struct {
	Kind     Kind
	Identity string
	Payload  any
}

// SubPath returns the worker sub-endpoint for this task's kind.
func (t TaskRequest) SubPath() string {
	return "/tasks/" + string(t.Kind)
}

func messageIdentity(kind Kind, chatID, messageID int64) string {
	return fmt.Sprintf("%s-%d-%d", kind, chatID, messageID)
}

// NewMessageTask builds a task for a text-shaped payload. kind must be one of
// KindInvoice, KindJoin, KindChat, or KindOnboard.
func NewMessageTask(kind Kind, payload *extract.MessagePayload) TaskRequest {
	return TaskRequest{
		Kind:     kind,
		Identity: messageIdentity(kind, payload.ChatID, payload.MessageID),
		Payload:  payload,
	}
}

// NewCallbackTask builds a task for a button press. Identity is keyed by the
// platform's callback query ID, which is already unique per press.
func NewCallbackTask(payload *extract.CallbackPayload) TaskRequest {
	return TaskRequest{
		Kind:     KindCallback,
		Identity: fmt.Sprintf("%s-%s", KindCallback, payload.CallbackID),
		Payload:  payload,
	}
}

func NewPhotoTask(payload *extract.PhotoPayload) TaskRequest {
	return TaskRequest{
		Kind:     KindPhoto,
		Identity: messageIdentity(KindPhoto, payload.ChatID, payload.MessageID),
		Payload:  payload,
	}
}

func NewDocumentTask(payload *extract.DocumentPayload) TaskRequest {
	return TaskRequest{
		Kind:     KindDocument,
		Identity: messageIdentity(KindDocument, payload.ChatID, payload.MessageID),
		Payload:  payload,
	}
}
