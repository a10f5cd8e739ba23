package extract_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"paperdesk.app/ingress/internal/event"
	"paperdesk.app/ingress/internal/extract"
)

func sizePtr(v int64) *int64 { return &v }

func messageUpdate(mutate func(*event.Message)) *event.Update {
	chatID := int64(5)
	messageID := int64(9)
	msg := &event.Message{
		MessageID: &messageID,
		Chat:      &event.Chat{ID: &chatID, Type: "private"},
		Date:      1700000000,
		From:      &event.User{ID: 7, Username: "alice"},
	}
	if mutate != nil {
		mutate(msg)
	}
	updateID := int64(1)
	return &event.Update{UpdateID: &updateID, Message: msg}
}

var _ = Describe("Message", func() {
	It("projects chat, message and sender identity", func() {
		u := messageUpdate(func(m *event.Message) { m.Text = "hello" })

		p, err := extract.Message(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.ChatID).To(Equal(int64(5)))
		Expect(p.MessageID).To(Equal(int64(9)))
		Expect(p.SenderName).To(Equal("alice"))
		Expect(p.Text).To(Equal("hello"))
		Expect(p.OccurredAt).To(Equal("2023-11-14T22:13:20Z"))
	})

	It("fails without text", func() {
		_, err := extract.Message(messageUpdate(nil))
		Expect(err).To(MatchError(extract.ErrIncompleteEvent))
	})

	It("fails without message content", func() {
		updateID := int64(1)
		_, err := extract.Message(&event.Update{UpdateID: &updateID})
		Expect(err).To(MatchError(extract.ErrIncompleteEvent))
	})

	Describe("sender display name", func() {
		It("joins first and last name when there is no username", func() {
			u := messageUpdate(func(m *event.Message) {
				m.Text = "hi"
				m.From = &event.User{ID: 7, FirstName: "Ada", LastName: "Lovelace"}
			})

			p, err := extract.Message(u)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.SenderName).To(Equal("Ada Lovelace"))
			Expect(p.FirstName).To(Equal("Ada"))
		})

		It("uses first name alone when last name is absent", func() {
			u := messageUpdate(func(m *event.Message) {
				m.Text = "hi"
				m.From = &event.User{ID: 7, FirstName: "Ada"}
			})

			p, err := extract.Message(u)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.SenderName).To(Equal("Ada"))
		})

		It("falls back to literals when the sender is anonymous", func() {
			u := messageUpdate(func(m *event.Message) {
				m.Text = "hi"
				m.From = &event.User{ID: 7}
			})

			p, err := extract.Message(u)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.SenderName).To(Equal("there"))
			Expect(p.FirstName).To(Equal("friend"))
		})
	})
})

var _ = Describe("Callback", func() {
	It("keys identity off the attached message", func() {
		chatID := int64(5)
		msgID := int64(3)
		updateID := int64(1)
		u := &event.Update{
			UpdateID: &updateID,
			CallbackQuery: &event.CallbackQuery{
				ID:           "cb42",
				From:         &event.User{ID: 7, Username: "alice"},
				ChatInstance: "ci",
				Data:         "approve",
				Message: &event.Message{
					MessageID: &msgID,
					Chat:      &event.Chat{ID: &chatID, Type: "private"},
					Date:      1700000000,
				},
			},
		}

		p, err := extract.Callback(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.CallbackID).To(Equal("cb42"))
		Expect(p.ChatID).To(Equal(int64(5)))
		Expect(p.MessageID).To(Equal(int64(3)))
		Expect(p.Action).To(Equal("approve"))
	})

	It("fails when the callback has no attached message", func() {
		updateID := int64(1)
		u := &event.Update{
			UpdateID: &updateID,
			CallbackQuery: &event.CallbackQuery{
				ID:           "cb42",
				From:         &event.User{ID: 7},
				ChatInstance: "ci",
				Data:         "approve",
			},
		}

		_, err := extract.Callback(u)
		Expect(err).To(MatchError(extract.ErrIncompleteEvent))
	})
})

var _ = Describe("Photo", func() {
	It("selects the photo with the larger declared byte size", func() {
		u := messageUpdate(func(m *event.Message) {
			m.Photo = []event.PhotoSize{
				{FileID: "small", Width: 4000, Height: 3000, FileSize: sizePtr(1000)},
				{FileID: "big", Width: 90, Height: 60, FileSize: sizePtr(2000)},
			}
		})

		p, err := extract.Photo(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.FileID).To(Equal("big"))
	})

	It("falls back to width*height when byte sizes are absent", func() {
		u := messageUpdate(func(m *event.Message) {
			m.Photo = []event.PhotoSize{
				{FileID: "thumb", Width: 90, Height: 60},
				{FileID: "full", Width: 800, Height: 600},
			}
		})

		p, err := extract.Photo(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.FileID).To(Equal("full"))
	})

	It("keeps the first candidate on ties", func() {
		u := messageUpdate(func(m *event.Message) {
			m.Photo = []event.PhotoSize{
				{FileID: "first", Width: 800, Height: 600, FileSize: sizePtr(2000)},
				{FileID: "second", Width: 800, Height: 600, FileSize: sizePtr(2000)},
			}
		})

		p, err := extract.Photo(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.FileID).To(Equal("first"))
	})

	It("fails without a photo", func() {
		_, err := extract.Photo(messageUpdate(nil))
		Expect(err).To(MatchError(extract.ErrIncompleteEvent))
	})
})

var _ = Describe("Document", func() {
	It("accepts a document exactly at the size ceiling", func() {
		u := messageUpdate(func(m *event.Message) {
			m.Document = &event.Document{FileID: "d1", FileName: "scan.pdf", FileSize: sizePtr(5 * 1024 * 1024)}
		})

		p, err := extract.Document(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.FileID).To(Equal("d1"))
	})

	It("rejects a document one byte over the ceiling", func() {
		u := messageUpdate(func(m *event.Message) {
			m.Document = &event.Document{FileID: "d1", FileName: "scan.pdf", FileSize: sizePtr(5*1024*1024 + 1)}
		})

		_, err := extract.Document(u)
		Expect(err).To(MatchError(extract.ErrDocumentTooLarge))
	})

	It("permits a document with no declared size, pending the worker's re-check", func() {
		u := messageUpdate(func(m *event.Message) {
			m.Document = &event.Document{FileID: "d1", FileName: "scan.pdf"}
		})

		p, err := extract.Document(u)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.FileSize).To(BeNil())
	})
})
