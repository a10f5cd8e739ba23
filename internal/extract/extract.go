package extract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"paperdesk.app/ingress/internal/event"
)

// MaxDocumentSize is the declared-size ceiling for document uploads. The
// check is inclusive: a document of exactly this many bytes passes. Absent
// size means "unknown, permit" -- the worker re-validates after download.
const MaxDocumentSize = 5 * 1024 * 1024

const (
	fallbackSenderName = "there"
	fallbackFirstName  = "friend"
)

// ErrIncompleteEvent is returned when required identity fields are missing.
// Classification should make this unreachable; the extractor re-checks anyway
// and treats it as a caller error, never a crash.
var ErrIncompleteEvent = errors.New("incomplete event")

// ErrDocumentTooLarge is returned for documents whose declared size exceeds
// MaxDocumentSize. It is a distinct outcome, not a silent drop.
var ErrDocumentTooLarge = errors.New("document exceeds size limit")

// Message projects a text-bearing update into a MessagePayload. Used for the
// invoice command, the onboarding command, and conversational text.
func Message(u *event.Update) (*MessagePayload, error) {
	msg, chatID, messageID, err := content(u)
	if err != nil {
		return nil, err
	}
	if msg.Text == "" {
		return nil, fmt.Errorf("%w: missing text", ErrIncompleteEvent)
	}

	return &MessagePayload{
		ChatID:     chatID,
		MessageID:  messageID,
		SenderName: senderName(msg.From),
		FirstName:  firstName(msg.From),
		Text:       msg.Text,
		OccurredAt: occurredAt(msg.Date),
	}, nil
}

// Callback projects a button press into a CallbackPayload. The chat and
// message identity come from the message the button was attached to.
func Callback(u *event.Update) (*CallbackPayload, error) {
	cb := u.CallbackQuery
	if cb == nil || cb.ID == "" {
		return nil, fmt.Errorf("%w: missing callback query", ErrIncompleteEvent)
	}
	if cb.Message == nil || cb.Message.Chat == nil || cb.Message.Chat.ID == nil || cb.Message.MessageID == nil {
		return nil, fmt.Errorf("%w: callback query has no attached message identity", ErrIncompleteEvent)
	}

	return &CallbackPayload{
		CallbackID: cb.ID,
		ChatID:     *cb.Message.Chat.ID,
		MessageID:  *cb.Message.MessageID,
		SenderName: senderName(cb.From),
		Action:     cb.Data,
		OccurredAt: occurredAt(cb.Message.Date),
	}, nil
}

// Photo projects a photo upload into a PhotoPayload, selecting the largest
// rendition the platform delivered.
func Photo(u *event.Update) (*PhotoPayload, error) {
	msg, chatID, messageID, err := content(u)
	if err != nil {
		return nil, err
	}
	if len(msg.Photo) == 0 {
		return nil, fmt.Errorf("%w: missing photo", ErrIncompleteEvent)
	}

	best := largestPhoto(msg.Photo)
	return &PhotoPayload{
		ChatID:     chatID,
		MessageID:  messageID,
		SenderName: senderName(msg.From),
		FirstName:  firstName(msg.From),
		FileID:     best.FileID,
		Width:      best.Width,
		Height:     best.Height,
		FileSize:   best.FileSize,
		OccurredAt: occurredAt(msg.Date),
	}, nil
}

// Document projects a document upload into a DocumentPayload, enforcing the
// declared-size ceiling.
func Document(u *event.Update) (*DocumentPayload, error) {
	msg, chatID, messageID, err := content(u)
	if err != nil {
		return nil, err
	}
	doc := msg.Document
	if doc == nil {
		return nil, fmt.Errorf("%w: missing document", ErrIncompleteEvent)
	}
	if doc.FileSize != nil && *doc.FileSize > MaxDocumentSize {
		return nil, fmt.Errorf("%w: declared size %d", ErrDocumentTooLarge, *doc.FileSize)
	}

	return &DocumentPayload{
		ChatID:     chatID,
		MessageID:  messageID,
		SenderName: senderName(msg.From),
		FirstName:  firstName(msg.From),
		FileID:     doc.FileID,
		FileName:   doc.FileName,
		MimeType:   doc.MimeType,
		FileSize:   doc.FileSize,
		OccurredAt: occurredAt(msg.Date),
	}, nil
}

func content(u *event.Update) (*event.Message, int64, int64, error) {
	msg := u.Content()
	if msg == nil {
		return nil, 0, 0, fmt.Errorf("%w: no message content", ErrIncompleteEvent)
	}
	if msg.Chat == nil || msg.Chat.ID == nil {
		return nil, 0, 0, fmt.Errorf("%w: missing chat id", ErrIncompleteEvent)
	}
	if msg.MessageID == nil {
		return nil, 0, 0, fmt.Errorf("%w: missing message id", ErrIncompleteEvent)
	}
	return msg, *msg.Chat.ID, *msg.MessageID, nil
}

// largestPhoto picks the biggest rendition in a left-to-right reduction:
// declared byte size wins when both candidates report one, width*height
// otherwise, and ties keep the earlier candidate.
func largestPhoto(photos []event.PhotoSize) event.PhotoSize {
	best := photos[0]
	for _, candidate := range photos[1:] {
		if biggerPhoto(candidate, best) {
			best = candidate
		}
	}
	return best
}

func biggerPhoto(a, b event.PhotoSize) bool {
	if a.FileSize != nil && b.FileSize != nil {
		return *a.FileSize > *b.FileSize
	}
	return a.Width*a.Height > b.Width*b.Height
}

func senderName(from *event.User) string {
	if from == nil {
		return fallbackSenderName
	}
	if from.Username != "" {
		return from.Username
	}
	full := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if full != "" {
		return full
	}
	return fallbackSenderName
}

func firstName(from *event.User) string {
	if from == nil || from.FirstName == "" {
		return fallbackFirstName
	}
	return from.FirstName
}

func occurredAt(unix int64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
