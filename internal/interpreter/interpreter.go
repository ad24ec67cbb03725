// Package interpreter turns a free-text tennis court booking request into a
// BookingRecord by prompting a language model and normalizing its answer.
package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"tennis-booking/internal/booking"
	"tennis-booking/internal/common/errors"
	"tennis-booking/internal/common/logger"
	"tennis-booking/internal/common/metrics"
	"tennis-booking/internal/common/observability"
	"tennis-booking/internal/llm"
	"tennis-booking/internal/models"
)

type requestIDKey struct{}

// WithRequestID attaches a correlation ID that Interpret logs with.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom returns the correlation ID stored by WithRequestID.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Interpreter holds only read-only collaborators and is safe for concurrent
// use.
type Interpreter struct {
	config       *Config
	completer    llm.Completer
	resolver     DateResolver
	obs          *observability.Observability
	logger       logger.Logger
	systemPrompt string
}

func New(cfg *Config, completer llm.Completer, resolver DateResolver, obs *observability.Observability, log logger.Logger) *Interpreter {
	if resolver == nil {
		resolver = NewDateResolver()
	}
	return &Interpreter{
		config:       cfg,
		completer:    completer,
		resolver:     resolver,
		obs:          obs,
		logger:       log.With(map[string]interface{}{"component": "interpreter"}),
		systemPrompt: buildSystemPrompt(cfg.DefaultLocation),
	}
}

// Interpret resolves relative dates against now. On failure the error is a
// *errors.StandardError and no record is returned.
func (i *Interpreter) Interpret(ctx context.Context, text string, now time.Time) (*models.BookingRecord, error) {
	start := time.Now()

	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
		ctx = WithRequestID(ctx, requestID)
	}

	ctx, span := observability.Tracer().Start(ctx, "booking.interpret")
	defer span.End()
	span.SetAttributes(attribute.String("request.id", requestID))

	log := i.logger.With(map[string]interface{}{"requestId": requestID})

	rec, err := i.interpret(ctx, log, text, now)

	outcome := "success"
	if err != nil {
		code := errors.CodeOf(err)
		outcome = string(code)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		log.Warn("interpretation failed", map[string]interface{}{
			"errorCode": code,
			"category":  errors.GetErrorCategory(code),
			"error":     err.Error(),
		})
	} else {
		log.Info("booking interpreted", map[string]interface{}{
			"scheduledAt": rec.ScheduledAt.Format(booking.TimestampLayout),
			"location":    rec.Location,
			"durationMs":  time.Since(start).Milliseconds(),
		})
	}

	metrics.InterpretationsTotal.WithLabelValues(outcome).Inc()
	metrics.InterpretationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	i.obs.RecordInterpretation(ctx, outcome)

	return rec, err
}

func (i *Interpreter) interpret(ctx context.Context, log logger.Logger, text string, now time.Time) (*models.BookingRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewEmptyRequestError()
	}

	req := llm.Request{
		SystemPrompt: i.systemPrompt,
		UserPrompt:   buildUserPrompt(text),
		Model:        i.config.Model,
		// Always zero: cached completions are only valid for deterministic
		// sampling.
		Temperature:  0,
	}
	raw, err := i.complete(ctx, req)
	if err != nil {
		return nil, errors.NewModelUnavailableError(err)
	}
	log.Debug("model response", map[string]interface{}{"response": raw})

	rec, err := i.buildRecord(log, raw, now)
	if err != nil {
		i.invalidate(ctx, log, req)
		return nil, err
	}
	return rec, nil
}

// buildRecord turns completion text into a record with defaults applied.
func (i *Interpreter) buildRecord(log logger.Logger, raw string, now time.Time) (*models.BookingRecord, error) {
	fields, err := parseResponse(raw)
	if err != nil {
		return nil, errors.NewMalformedResponseError(err)
	}

	if _, ok := booking.CoerceText(fields[booking.FieldLocation]); !ok {
		fields[booking.FieldLocation] = i.config.DefaultLocation
	}
	if n, ok := booking.CoerceInt(fields[booking.FieldDurationMinutes]); !ok || n <= 0 {
		fields[booking.FieldDurationMinutes] = i.config.DefaultDuration
	}

	dateText, _ := fields[booking.FieldDateTime].(string)
	if strings.TrimSpace(dateText) == "" {
		return nil, errors.NewUnparseableTimestampError("")
	}
	scheduledAt, ok := i.resolver.Resolve(dateText, now)
	if !ok {
		return nil, errors.NewUnparseableTimestampError(dateText)
	}
	fields[booking.FieldDateTime] = scheduledAt

	rec, dropped, err := booking.Construct(fields)
	if err != nil {
		return nil, err
	}
	for _, name := range dropped {
		metrics.FieldsDropped.WithLabelValues(name).Inc()
		log.Info("discarded unrecognized field value", map[string]interface{}{
			"field": name,
			"value": fmt.Sprintf("%v", fields[name]),
		})
	}

	applyRules(rec, i.config)
	return rec, nil
}

// invalidate forgets a completion that produced no record, so a cached bad
// answer is not replayed for the same request.
func (i *Interpreter) invalidate(ctx context.Context, log logger.Logger, req llm.Request) {
	inv, ok := i.completer.(llm.Invalidator)
	if !ok {
		return
	}
	if err := inv.Invalidate(context.WithoutCancel(ctx), req); err != nil {
		log.Warn("failed to invalidate cached completion", map[string]interface{}{"error": err.Error()})
	}
}

func (i *Interpreter) complete(ctx context.Context, req llm.Request) (string, error) {
	provider := i.completer.Provider()

	ctx, span := observability.Tracer().Start(ctx, "llm.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", req.Model),
	)

	if i.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := i.completer.Complete(ctx, req)

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
	}
	metrics.ModelCallsTotal.WithLabelValues(provider, status).Inc()
	i.obs.RecordModelCall(ctx, provider, time.Since(start), status)

	return text, err
}

// parseResponse requires a single JSON object, optionally wrapped in a
// Markdown code fence, and normalizes alias keys to wire names.
func parseResponse(raw string) (map[string]interface{}, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, fmt.Errorf("response is null")
	}
	return booking.NormalizeKeys(fields), nil
}
