package webhook

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"paperdesk.app/ingress/common/id"
	"paperdesk.app/ingress/common/logger"
	"paperdesk.app/ingress/internal/classify"
	"paperdesk.app/ingress/internal/dispatch"
	"paperdesk.app/ingress/internal/event"
	"paperdesk.app/ingress/internal/extract"
	"paperdesk.app/ingress/internal/gate"
	"paperdesk.app/ingress/internal/http/dto"
)

// Handler terminates inbound platform webhooks. It validates, classifies,
// extracts, gates approval-sensitive intents, and dispatches -- then answers
// immediately; it never blocks on the worker's business outcome.
type Handler struct {
	secret     string
	classifier *classify.Classifier
	gate       *gate.Gate
	dispatcher dispatch.Dispatcher
	timeout    time.Duration
}

func NewHandler(secret string, classifier *classify.Classifier, g *gate.Gate, dispatcher dispatch.Dispatcher, timeout time.Duration) *Handler {
	return &Handler{
		secret:     secret,
		classifier: classifier,
		gate:       g,
		dispatcher: dispatcher,
		timeout:    timeout,
	}
}

func (h *Handler) HandleUpdate(c *gin.Context) {
	// Secret mismatch answers 404, not 401: the endpoint must be
	// indistinguishable from a route that does not exist.
	if subtle.ConstantTimeCompare([]byte(c.Param("secret")), []byte(h.secret)) != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	ctx := c.Request.Context()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		DeliveryID: logger.Ptr(id.New()),
		Component:  "ingress.webhook",
	})

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	update, serr := event.Validate(body)
	if serr != nil {
		slog.WarnContext(ctx, "rejected malformed update", "error", serr)
		c.JSON(http.StatusBadRequest, gin.H{"error": serr.Error()})
		return
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{UpdateID: update.UpdateID})

	intent := h.classifier.Classify(update)
	ctx = logger.WithLogFields(ctx, logger.LogFields{Intent: logger.Ptr(string(intent))})
	slog.InfoContext(ctx, "update classified")

	status, resp := h.process(ctx, update, intent)
	c.JSON(status, resp)
}

// process runs the classified update through extraction, gating and dispatch,
// and maps every outcome to a status plus response body. Drops are 200s with
// a descriptive action tag; only dispatch and store failures become 5xx.
func (h *Handler) process(ctx context.Context, update *event.Update, intent classify.Intent) (int, any) {
	switch intent {
	case classify.IntentCallbackQuery:
		payload, err := extract.Callback(update)
		if err != nil {
			return extractionFailure(ctx, err)
		}
		return h.dispatchTask(ctx, dispatch.NewCallbackTask(payload), dto.ActionCallbackEnqueued)

	case classify.IntentInvoiceCommand:
		payload, err := extract.Message(update)
		if err != nil {
			return extractionFailure(ctx, err)
		}
		return h.dispatchTask(ctx, dispatch.NewMessageTask(dispatch.KindInvoice, payload), dto.ActionInvoiceCommandEnqueued)

	case classify.IntentOnboardCommand:
		return h.processOnboardCommand(ctx, update)

	case classify.IntentConversationText:
		return h.processConversationText(ctx, update)

	case classify.IntentPhotoUpload:
		payload, err := extract.Photo(update)
		if err != nil {
			return extractionFailure(ctx, err)
		}
		return h.dispatchTask(ctx, dispatch.NewPhotoTask(payload), dto.ActionPhotoEnqueued)

	case classify.IntentDocumentUpload:
		return h.processDocumentUpload(ctx, update)

	case classify.IntentOtherCommand:
		slog.InfoContext(ctx, "unrecognized command ignored")
		return http.StatusOK, dto.WebhookResponse{OK: true, Action: dto.ActionIgnoredCommand}

	default:
		if classify.HasUnsupportedDocument(update) {
			slog.InfoContext(ctx, "unsupported document ignored")
			return http.StatusOK, dto.WebhookResponse{OK: true, Action: dto.ActionIgnoredUnsupportedDocument}
		}
		slog.DebugContext(ctx, "update ignored")
		return http.StatusOK, dto.WebhookResponse{OK: true, Action: dto.ActionIgnored}
	}
}

func (h *Handler) processOnboardCommand(ctx context.Context, update *event.Update) (int, any) {
	payload, err := extract.Message(update)
	if err != nil {
		return extractionFailure(ctx, err)
	}

	allowed, err := h.gate.AllowOnboard(ctx, payload.ChatID)
	if err != nil {
		slog.ErrorContext(ctx, "rate limit check failed", "error", err)
		return http.StatusInternalServerError, gin.H{"error": "failed to process event"}
	}
	if !allowed {
		// Deliberate silent drop: a 200 that looks like any other drop.
		return http.StatusOK, dto.WebhookResponse{OK: true, Action: dto.ActionIgnoredRateLimited}
	}

	return h.dispatchTask(ctx, dispatch.NewMessageTask(dispatch.KindJoin, payload), dto.ActionJoinCommandEnqueued)
}

func (h *Handler) processConversationText(ctx context.Context, update *event.Update) (int, any) {
	payload, err := extract.Message(update)
	if err != nil {
		return extractionFailure(ctx, err)
	}

	route, err := h.gate.RouteText(ctx, payload.ChatID)
	if err != nil {
		slog.ErrorContext(ctx, "approval check failed", "error", err)
		return http.StatusInternalServerError, gin.H{"error": "failed to process event"}
	}

	if route == gate.RouteTrusted {
		return h.dispatchTask(ctx, dispatch.NewMessageTask(dispatch.KindChat, payload), dto.ActionChatMessageEnqueued)
	}
	return h.dispatchTask(ctx, dispatch.NewMessageTask(dispatch.KindOnboard, payload), dto.ActionOnboardingMessageEnqueued)
}

func (h *Handler) processDocumentUpload(ctx context.Context, update *event.Update) (int, any) {
	payload, err := extract.Document(update)
	if err != nil {
		if errors.Is(err, extract.ErrDocumentTooLarge) {
			slog.InfoContext(ctx, "oversize document rejected", "error", err)
			return http.StatusOK, dto.WebhookResponse{OK: true, Action: dto.ActionRejectedSizeLimit}
		}
		return extractionFailure(ctx, err)
	}
	return h.dispatchTask(ctx, dispatch.NewDocumentTask(payload), dto.ActionDocumentEnqueued)
}

func (h *Handler) dispatchTask(ctx context.Context, task dispatch.TaskRequest, action dto.Action) (int, any) {
	dispatchCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	identity, err := h.dispatcher.Dispatch(dispatchCtx, task)
	if err != nil {
		// Transient: answer 5xx so the platform redelivers. Safe because a
		// redelivery rebuilds the identical task identity.
		slog.ErrorContext(ctx, "dispatch failed", "error", err, "kind", task.Kind)
		return http.StatusInternalServerError, gin.H{"error": "failed to dispatch event"}
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{TaskName: logger.Ptr(identity)})
	slog.InfoContext(ctx, "update dispatched", "action", action)

	return http.StatusOK, dto.WebhookResponse{OK: true, Action: action, TaskName: identity}
}

func extractionFailure(ctx context.Context, err error) (int, any) {
	slog.WarnContext(ctx, "payload extraction failed", "error", err)
	return http.StatusBadRequest, gin.H{"error": err.Error()}
}
