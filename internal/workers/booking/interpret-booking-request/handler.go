// Package interpretbookingrequest is the Zeebe job worker that fills a
// booking form from a process variable holding the customer's request.
package interpretbookingrequest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"tennis-booking/internal/booking"
	"tennis-booking/internal/common/errors"
	"tennis-booking/internal/common/logger"
	"tennis-booking/internal/common/metrics"
	"tennis-booking/internal/interpreter"
	"tennis-booking/internal/models"
)

const (
	TaskType = "interpret-booking-request"
)

// Interpreter is the part of *interpreter.Interpreter the worker needs.
type Interpreter interface {
	Interpret(ctx context.Context, text string, now time.Time) (*models.BookingRecord, error)
}

type HandlerOptions struct {
	CustomConfig *Config
	Interpreter  Interpreter
	Logger       logger.Logger
}

type Handler struct {
	config      *Config
	interpreter Interpreter
	logger      logger.Logger
	now         func() time.Time
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	cfg := opts.CustomConfig
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Interpreter == nil {
		return nil, fmt.Errorf("interpreter is required")
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}

	return &Handler{
		config:      cfg,
		interpreter: opts.Interpreter,
		logger:      log.With(map[string]interface{}{"taskType": TaskType}),
		now:         time.Now,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewValidationFailedError(fmt.Sprintf("parse input: %v", err)), start)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err, start)
		return
	}

	h.completeJob(client, job, output, start)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	now := h.now()
	if ref := strings.TrimSpace(input.ReferenceTime); ref != "" {
		parsed, err := time.Parse(time.RFC3339, ref)
		if err != nil {
			return nil, errors.NewValidationFailedError("referenceTime must be RFC 3339")
		}
		now = parsed
	}

	if input.RequestID != "" {
		ctx = interpreter.WithRequestID(ctx, input.RequestID)
	}

	rec, err := h.interpreter.Interpret(ctx, input.RequestText, now)
	if err != nil {
		return nil, err
	}

	return &Output{
		Booking:       rec,
		Display:       booking.Render(rec),
		Sections:      booking.RenderSections(rec),
		InterpretedAt: h.now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output, start time.Time) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)

	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("Failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err.Error(),
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	h.logger.Info("job completed", map[string]interface{}{
		"jobKey":      job.Key,
		"scheduledAt": output.Booking.ScheduledAt.Format(booking.TimestampLayout),
	})
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error, start time.Time) {
	code := errors.CodeOf(err)
	retries := h.retriesFor(code, job.Retries)

	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":    job.Key,
		"error":     err.Error(),
		"errorCode": code,
		"retries":   retries,
	})

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	_, _ = client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(retries).
		ErrorMessage(string(code) + ": " + err.Error()).
		Send(context.Background())
}

// retriesFor caps the code's retry budget by the worker's MaxRetries and by
// what the job has left, so a retryable failure still terminates.
func (h *Handler) retriesFor(code errors.ErrorCode, remaining int32) int32 {
	retries := errors.GetRetryCount(code)
	if retries > h.config.MaxRetries {
		retries = h.config.MaxRetries
	}
	if remaining > 0 && int(remaining)-1 < retries {
		retries = int(remaining) - 1
	}
	if retries < 0 {
		retries = 0
	}
	return int32(retries)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
