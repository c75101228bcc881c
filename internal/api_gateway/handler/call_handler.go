package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/call-detail-billing/internal/api_gateway/middleware"
	"github.com/call-detail-billing/internal/api_gateway/service"
	"github.com/call-detail-billing/internal/domain/archive"
	"github.com/call-detail-billing/internal/domain/billing"
	"github.com/call-detail-billing/internal/domain/callrecord"
	"github.com/call-detail-billing/internal/validation"
	"github.com/gin-gonic/gin"
)

// CallHandler handles HTTP requests for call events, bills and the archive
type CallHandler struct {
	callService    service.CallService
	billService    service.BillService
	archiveService service.ArchiveService
	logger         *slog.Logger
}

// NewCallHandler creates a new call handler
func NewCallHandler(
	logger *slog.Logger,
	callService service.CallService,
	billService service.BillService,
	archiveService service.ArchiveService,
) *CallHandler {
	return &CallHandler{
		callService:    callService,
		billService:    billService,
		archiveService: archiveService,
		logger:         logger,
	}
}

// Submit validates a start or end event and merges it into its call record
func (h *CallHandler) Submit(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.logger.Warn("Failed to read request body", "error", err)
		RespondValidationError(c, validation.ExpectedObjectError())
		return
	}

	event, err := validation.DecodeEvent(body)
	if err != nil {
		var fieldErr *validation.FieldError
		if errors.As(err, &fieldErr) {
			RespondValidationError(c, fieldErr)
			return
		}
		h.logger.Error("Unexpected event decoding failure", "error", err)
		RespondInternalError(c)
		return
	}

	err = h.callService.SubmitEvent(c.Request.Context(), event, middleware.GetCorrelationID(c))
	if err != nil {
		if errors.Is(err, callrecord.ErrEndBeforeStart) {
			RespondValidationError(c, validation.EndBeforeStartError())
			return
		}
		h.logger.Error("Failed to submit call event", "call_id", event.ID(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// GetBill returns the bill of a subscriber for a closed month
func (h *CallHandler) GetBill(c *gin.Context) {
	bill, err := h.billService.GetBill(c.Request.Context(), c.Query("number"), c.Query("period"))
	if err != nil {
		var fieldErr *validation.FieldError
		if errors.As(err, &fieldErr) {
			RespondValidationError(c, fieldErr)
			return
		}
		h.logger.Error("Failed to get bill", "number", c.Query("number"), "error", err)
		RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, bill)
}

// GetArchivedCall retrieves an archived completed call, returns 404 if not archived
func (h *CallHandler) GetArchivedCall(c *gin.Context) {
	callID, err := validation.ParseCallID(c.Param("call_id"))
	if err != nil {
		var fieldErr *validation.FieldError
		if errors.As(err, &fieldErr) {
			RespondValidationError(c, fieldErr)
			return
		}
		RespondInternalError(c)
		return
	}

	entry, err := h.archiveService.GetArchivedCall(c.Request.Context(), callID)
	if err != nil {
		if errors.Is(err, archive.ErrEntryNotFound{}) {
			RespondNotFound(c, "CALL_NOT_FOUND", "Call not found")
			return
		}
		h.logger.Error("Failed to get archived call", "call_id", callID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapArchiveEntryToResponse(entry))
}

func mapArchiveEntryToResponse(entry *archive.Entry) ArchivedCallResponse {
	return ArchivedCallResponse{
		CallID:          entry.CallID,
		Source:          entry.Source,
		Destination:     entry.Destination,
		StartedAt:       entry.StartedAt.UTC().Format(time.RFC3339),
		EndedAt:         entry.EndedAt.UTC().Format(time.RFC3339),
		ReferencePeriod: entry.ReferencePeriod,
		Duration:        entry.Duration,
		Price:           entry.Price,
		CallDuration:    billing.FormatDuration(entry.Duration),
		CallPrice:       billing.FormatPrice(entry.Price),
		ArchivedAt:      entry.ArchivedAt.UTC().Format(time.RFC3339),
	}
}
