package classify

import (
	"path/filepath"
	"strings"

	"paperdesk.app/ingress/internal/event"
)

// Intent is the single classified purpose of an update, drawn from a closed set.
type Intent string

const (
	IntentCallbackQuery    Intent = "callback_query"
	IntentInvoiceCommand   Intent = "invoice_command"
	IntentOnboardCommand   Intent = "onboard_command"
	IntentOtherCommand     Intent = "other_command"
	IntentConversationText Intent = "conversation_text"
	IntentPhotoUpload      Intent = "photo_upload"
	IntentDocumentUpload   Intent = "document_upload"
	IntentUnrecognized     Intent = "unrecognized"
)

var supportedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"image/heic":      {},
	"image/heif":      {},
}

var supportedExtensions = map[string]struct{}{
	".pdf":  {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".heic": {},
	".heif": {},
}

type Classifier struct {
	invoiceCommand string
	onboardCommand string
}

func NewClassifier(invoiceCommand, onboardCommand string) *Classifier {
	return &Classifier{
		invoiceCommand: strings.ToLower(invoiceCommand),
		onboardCommand: strings.ToLower(onboardCommand),
	}
}

// Classify maps a validated update to exactly one intent. It is a pure
// function of the update's shape and is evaluated in a fixed priority order;
// several predicates overlap, so the order is a correctness requirement, not
// a style choice.
func (c *Classifier) Classify(u *event.Update) Intent {
	if cb := u.CallbackQuery; cb != nil && cb.Data != "" && cb.Message != nil {
		return IntentCallbackQuery
	}

	msg := u.Content()
	if msg == nil {
		return IntentUnrecognized
	}

	if msg.Text != "" {
		text := strings.ToLower(msg.Text)
		switch {
		case strings.HasPrefix(text, c.invoiceCommand):
			return IntentInvoiceCommand
		case strings.HasPrefix(text, c.onboardCommand):
			return IntentOnboardCommand
		case strings.HasPrefix(text, "/"):
			return IntentOtherCommand
		default:
			return IntentConversationText
		}
	}

	if len(msg.Photo) > 0 {
		return IntentPhotoUpload
	}

	if msg.Document != nil && SupportedDocument(msg.Document) {
		return IntentDocumentUpload
	}

	return IntentUnrecognized
}

// SupportedDocument reports whether a document attachment is one the pipeline
// can process: PDF or a common image format, matched by declared MIME type or
// by filename extension.
func SupportedDocument(doc *event.Document) bool {
	if _, ok := supportedMimeTypes[strings.ToLower(doc.MimeType)]; ok {
		return true
	}
	ext := strings.ToLower(filepath.Ext(doc.FileName))
	_, ok := supportedExtensions[ext]
	return ok
}

// HasUnsupportedDocument reports whether the update carries a document
// attachment that fell through the supported set. The boundary uses this to
// answer with a distinct tag instead of a plain ignore.
func HasUnsupportedDocument(u *event.Update) bool {
	msg := u.Content()
	if msg == nil || msg.Document == nil {
		return false
	}
	return !SupportedDocument(msg.Document)
}
