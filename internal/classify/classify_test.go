package classify_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"paperdesk.app/ingress/internal/classify"
	"paperdesk.app/ingress/internal/event"
)

func messageUpdate(mutate func(*event.Message)) *event.Update {
	chatID := int64(5)
	messageID := int64(9)
	msg := &event.Message{
		MessageID: &messageID,
		Chat:      &event.Chat{ID: &chatID, Type: "private"},
		Date:      1700000000,
	}
	if mutate != nil {
		mutate(msg)
	}
	updateID := int64(1)
	return &event.Update{UpdateID: &updateID, Message: msg}
}

var _ = Describe("Classifier", func() {
	var classifier *classify.Classifier

	BeforeEach(func() {
		classifier = classify.NewClassifier("/invoice", "/join")
	})

	Describe("priority order", func() {
		It("classifies a callback query ahead of everything else", func() {
			u := messageUpdate(func(m *event.Message) { m.Text = "/invoice" })
			cbMsgID := int64(3)
			chatID := int64(5)
			u.CallbackQuery = &event.CallbackQuery{
				ID:           "cb1",
				From:         &event.User{ID: 7},
				ChatInstance: "ci",
				Data:         "approve",
				Message: &event.Message{
					MessageID: &cbMsgID,
					Chat:      &event.Chat{ID: &chatID, Type: "private"},
				},
			}

			Expect(classifier.Classify(u)).To(Equal(classify.IntentCallbackQuery))
		})

		It("ignores a callback query with empty data", func() {
			u := messageUpdate(nil)
			u.Message = nil
			u.CallbackQuery = &event.CallbackQuery{ID: "cb1", From: &event.User{ID: 7}, ChatInstance: "ci"}

			Expect(classifier.Classify(u)).To(Equal(classify.IntentUnrecognized))
		})

		It("ignores a callback query with no attached message", func() {
			u := messageUpdate(nil)
			u.Message = nil
			u.CallbackQuery = &event.CallbackQuery{ID: "cb1", From: &event.User{ID: 7}, ChatInstance: "ci", Data: "approve"}

			Expect(classifier.Classify(u)).To(Equal(classify.IntentUnrecognized))
		})

		It("never classifies an invoice command as other command, regardless of trailing content", func() {
			for _, text := range []string{"/invoice", "/invoice now", "/INVOICE", "/Invoice march receipts"} {
				u := messageUpdate(func(m *event.Message) { m.Text = text })
				Expect(classifier.Classify(u)).To(Equal(classify.IntentInvoiceCommand), "text %q", text)
			}
		})

		It("classifies the onboarding command case-insensitively", func() {
			u := messageUpdate(func(m *event.Message) { m.Text = "/Join AB-123" })
			Expect(classifier.Classify(u)).To(Equal(classify.IntentOnboardCommand))
		})

		It("classifies unknown commands as other command", func() {
			u := messageUpdate(func(m *event.Message) { m.Text = "/help" })
			Expect(classifier.Classify(u)).To(Equal(classify.IntentOtherCommand))
		})

		It("classifies plain text as conversation", func() {
			u := messageUpdate(func(m *event.Message) { m.Text = "hello" })
			Expect(classifier.Classify(u)).To(Equal(classify.IntentConversationText))
		})

		It("prefers text over an attached photo", func() {
			u := messageUpdate(func(m *event.Message) {
				m.Text = "see attached"
				m.Photo = []event.PhotoSize{{FileID: "f1", Width: 10, Height: 10}}
			})
			Expect(classifier.Classify(u)).To(Equal(classify.IntentConversationText))
		})
	})

	Describe("uploads", func() {
		It("classifies a photo upload", func() {
			u := messageUpdate(func(m *event.Message) {
				m.Photo = []event.PhotoSize{{FileID: "f1", Width: 10, Height: 10}}
			})
			Expect(classifier.Classify(u)).To(Equal(classify.IntentPhotoUpload))
		})

		It("treats an empty photo array as no photo", func() {
			u := messageUpdate(func(m *event.Message) { m.Photo = []event.PhotoSize{} })
			Expect(classifier.Classify(u)).To(Equal(classify.IntentUnrecognized))
		})

		It("classifies a pdf document by mime type", func() {
			u := messageUpdate(func(m *event.Message) {
				m.Document = &event.Document{FileID: "d1", MimeType: "application/pdf"}
			})
			Expect(classifier.Classify(u)).To(Equal(classify.IntentDocumentUpload))
		})

		It("classifies an image document by filename extension", func() {
			u := messageUpdate(func(m *event.Message) {
				m.Document = &event.Document{FileID: "d1", FileName: "receipt.HEIC"}
			})
			Expect(classifier.Classify(u)).To(Equal(classify.IntentDocumentUpload))
		})

		It("resolves a word document past the supported set to unrecognized", func() {
			u := messageUpdate(func(m *event.Message) {
				m.Document = &event.Document{FileID: "d1", FileName: "x.docx", MimeType: "application/msword"}
			})
			Expect(classifier.Classify(u)).To(Equal(classify.IntentUnrecognized))
			Expect(classify.HasUnsupportedDocument(u)).To(BeTrue())
		})
	})

	It("classifies an empty update as unrecognized", func() {
		updateID := int64(1)
		u := &event.Update{UpdateID: &updateID}
		Expect(classifier.Classify(u)).To(Equal(classify.IntentUnrecognized))
		Expect(classify.HasUnsupportedDocument(u)).To(BeFalse())
	})

	It("classifies channel posts like messages", func() {
		u := messageUpdate(func(m *event.Message) { m.Text = "/invoice" })
		u.ChannelPost = u.Message
		u.Message = nil
		Expect(classifier.Classify(u)).To(Equal(classify.IntentInvoiceCommand))
	})
})
