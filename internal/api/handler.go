// Package api exposes the booking interpreter over HTTP.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tennis-booking/internal/booking"
	"tennis-booking/internal/common/errors"
	"tennis-booking/internal/common/logger"
	"tennis-booking/internal/interpreter"
	"tennis-booking/internal/models"
)

const requestIDKey = "requestId"

// BookingInterpreter is the part of *interpreter.Interpreter the API needs.
type BookingInterpreter interface {
	Interpret(ctx context.Context, text string, now time.Time) (*models.BookingRecord, error)
}

type InterpretRequest struct {
	Request       string `json:"request" binding:"required"`
	ReferenceTime string `json:"referenceTime,omitempty"`
}

type InterpretResponse struct {
	RequestID string                       `json:"requestId"`
	Booking   *models.BookingRecord        `json:"booking"`
	Display   map[string]map[string]string `json:"display"`
	Sections  []booking.Section            `json:"sections"`
}

type ErrorResponse struct {
	RequestID string `json:"requestId,omitempty"`
	Error     string `json:"error"`
	Code      string `json:"code"`
}

type SchemaResponse struct {
	Version string                 `json:"version"`
	Schema  map[string]interface{} `json:"schema"`
}

type Handler struct {
	interpreter BookingInterpreter
	timeout     time.Duration
	logger      logger.Logger
	now         func() time.Time
}

// NewHandler builds the booking handler. A zero timeout leaves the request
// context alone.
func NewHandler(interp BookingInterpreter, timeout time.Duration, log logger.Logger) *Handler {
	return &Handler{
		interpreter: interp,
		timeout:     timeout,
		logger:      log.With(map[string]interface{}{"component": "api"}),
		now:         time.Now,
	}
}

func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	bookings := v1.Group("/bookings")
	{
		bookings.POST("/interpret", h.Interpret)
		bookings.GET("/schema", h.Schema)
	}
}

// Interpret handles POST /api/v1/bookings/interpret.
func (h *Handler) Interpret(c *gin.Context) {
	requestID := c.GetString(requestIDKey)
	if requestID == "" {
		requestID = newRequestID()
	}

	var req InterpretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			RequestID: requestID,
			Error:     "invalid request body: " + err.Error(),
			Code:      "BAD_REQUEST",
		})
		return
	}

	now := h.now()
	if ref := strings.TrimSpace(req.ReferenceTime); ref != "" {
		parsed, err := time.Parse(time.RFC3339, ref)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				RequestID: requestID,
				Error:     "referenceTime must be RFC 3339",
				Code:      "BAD_REQUEST",
			})
			return
		}
		now = parsed
	}

	ctx := interpreter.WithRequestID(c.Request.Context(), requestID)
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	rec, err := h.interpreter.Interpret(ctx, req.Request, now)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			RequestID: requestID,
			Error:     "could not process the request",
			Code:      string(errors.CodeOf(err)),
		})
		return
	}

	c.JSON(http.StatusOK, InterpretResponse{
		RequestID: requestID,
		Booking:   rec,
		Display:   booking.Render(rec),
		Sections:  booking.RenderSections(rec),
	})
}

// Schema handles GET /api/v1/bookings/schema.
func (h *Handler) Schema(c *gin.Context) {
	c.JSON(http.StatusOK, SchemaResponse{
		Version: booking.SchemaVersion,
		Schema:  booking.Schema(),
	})
}

func newRequestID() string {
	return uuid.NewString()
}
