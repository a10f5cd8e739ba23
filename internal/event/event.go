package event

// Typed projection of one inbound platform update. Every field the pipeline
// does not care about is dropped at parse time; unknown fields in the raw
// document are ignored, so newer platform payloads keep validating.
type Update struct {
	UpdateID      *int64         `json:"update_id" validate:"required"`
	Message       *Message       `json:"message,omitempty"`
	ChannelPost   *Message       `json:"channel_post,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Content returns the message-shaped content of the update, preferring a
// direct message over a channel post. Nil when the update carries neither.
func (u *Update) Content() *Message {
	if u.Message != nil {
		return u.Message
	}
	return u.ChannelPost
}

type Message struct {
	MessageID *int64      `json:"message_id" validate:"required"`
	From      *User       `json:"from,omitempty"`
	Chat      *Chat       `json:"chat" validate:"required"`
	Date      int64       `json:"date,omitempty"`
	Text      string      `json:"text,omitempty"`
	Photo     []PhotoSize `json:"photo,omitempty" validate:"dive"`
	Document  *Document   `json:"document,omitempty"`
}

type Chat struct {
	ID       *int64 `json:"id" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=private group supergroup channel"`
	Title    string `json:"title,omitempty"`
	Username string `json:"username,omitempty"`
}

type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// PhotoSize is one rendition of an uploaded image. The platform delivers the
// same picture at several resolutions; FileSize is not always reported.
type PhotoSize struct {
	FileID   string `json:"file_id" validate:"required"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize *int64 `json:"file_size,omitempty"`
}

type Document struct {
	FileID   string `json:"file_id" validate:"required"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	FileSize *int64 `json:"file_size,omitempty"`
}

type CallbackQuery struct {
	ID           string   `json:"id" validate:"required"`
	From         *User    `json:"from" validate:"required"`
	Message      *Message `json:"message,omitempty"`
	ChatInstance string   `json:"chat_instance" validate:"required"`
	Data         string   `json:"data,omitempty"`
}
