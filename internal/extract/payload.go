package extract

// Normalized task payloads. These are the only shapes that cross the dispatch
// boundary; nothing platform-specific leaks past this package.

type MessagePayload struct {
	ChatID     int64  `json:"chat_id"`
	MessageID  int64  `json:"message_id"`
	SenderName string `json:"sender_name"`
	FirstName  string `json:"first_name"`
	Text       string `json:"text"`
	OccurredAt string `json:"occurred_at,omitempty"`
}

type CallbackPayload struct {
	CallbackID string `json:"callback_id"`
	ChatID     int64  `json:"chat_id"`
	MessageID  int64  `json:"message_id"`
	SenderName string `json:"sender_name"`
	Action     string `json:"action"`
	OccurredAt string `json:"occurred_at,omitempty"`
}

type PhotoPayload struct {
	ChatID     int64  `json:"chat_id"`
	MessageID  int64  `json:"message_id"`
	SenderName string `json:"sender_name"`
	FirstName  string `json:"first_name"`
	FileID     string `json:"file_id"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	FileSize   *int64 `json:"file_size,omitempty"`
	OccurredAt string `json:"occurred_at,omitempty"`
}

type DocumentPayload struct {
	ChatID     int64  `json:"chat_id"`
	MessageID  int64  `json:"message_id"`
	SenderName string `json:"sender_name"`
	FirstName  string `json:"first_name"`
	FileID     string `json:"file_id"`
	FileName   string `json:"file_name,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
	FileSize   *int64 `json:"file_size,omitempty"`
	OccurredAt string `json:"occurred_at,omitempty"`
}
