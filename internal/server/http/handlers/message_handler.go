package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/reconcile"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

// MessageHandler accepts inbound messages from transport adapters.
type MessageHandler struct {
	facade IngestFacade
}

// NewMessageHandler constructs MessageHandler.
func NewMessageHandler(facade IngestFacade) *MessageHandler {
	return &MessageHandler{facade: facade}
}

// Ingest handles POST /api/messages.
func (h *MessageHandler) Ingest(c *gin.Context) {
	var req dto.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.ErrorResponse{Code: "too_large", Message: tooLarge.Error()})
			return
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Code: "invalid_message", Message: verrs.Error()})
			return
		}
		abortBadRequest(c, "invalid request body")
		return
	}

	msg := model.InboundMessage{
		Channel:   model.Channel(req.Channel),
		Sender:    req.Sender,
		MessageID: req.MessageID,
		Subject:   req.Subject,
		Text:      req.Text,
		MediaRef:  req.MediaRef,
	}
	if req.ReceivedAt != nil {
		msg.ReceivedAt = req.ReceivedAt.UTC()
	} else {
		msg.ReceivedAt = time.Now().UTC()
	}

	var raw model.RawExtraction
	if req.Extraction != nil {
		raw = model.RawExtraction(req.Extraction)
	}

	res, err := h.facade.Ingest(c.Request.Context(), msg, raw)
	if err != nil {
		abortWithError(c, err)
		return
	}

	resp := dto.IngestResponse{
		Outcome:        string(res.Outcome),
		Resolution:     string(res.Resolution),
		RenewalApplied: res.RenewalApplied,
	}
	if res.Order != nil {
		order := toOrderResponse(*res.Order)
		resp.Order = &order
	}

	switch res.Outcome {
	case reconcile.OutcomeCreated:
		c.JSON(http.StatusCreated, resp)
	case reconcile.OutcomeDuplicate:
		c.JSON(http.StatusOK, resp)
	default:
		if res.Cause != nil {
			resp.Reason = res.Cause.Error()
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
	}
}
