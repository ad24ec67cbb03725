// internal/workers/booking/interpret-booking-request/handler_test.go
package interpretbookingrequest

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tennis-booking/internal/booking"
	"tennis-booking/internal/common/config"
	"tennis-booking/internal/common/errors"
	"tennis-booking/internal/common/logger"
	"tennis-booking/internal/interpreter"
	"tennis-booking/internal/models"
)

// ==========================
// Mock Interpreter Implementation
// ==========================

type MockInterpreter struct {
	mock.Mock
}

func (m *MockInterpreter) Interpret(ctx context.Context, text string, now time.Time) (*models.BookingRecord, error) {
	args := m.Called(ctx, text, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingRecord), args.Error(1)
}

// ==========================
// Mock Job Helper
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "court-booking",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_InterpretBookingRequest",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

// ==========================
// Test Helpers
// ==========================

var fixedNow = time.Date(2024, 3, 19, 10, 30, 0, 0, time.UTC)

func createValidConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       10 * time.Second,
		MaxRetries:    3,
	}
}

func createTestHandler(t *testing.T, interp Interpreter) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Interpreter:  interp,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	h.now = func() time.Time { return fixedNow }
	return h
}

func createRecord() *models.BookingRecord {
	format := models.MatchFormatSingles
	players := 2
	return &models.BookingRecord{
		ScheduledAt:     time.Date(2024, 3, 20, 19, 0, 0, 0, time.UTC),
		Location:        booking.DefaultLocation,
		DurationMinutes: 60,
		MatchFormat:     &format,
		PlayerCount:     &players,
	}
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid configuration",
			opts: HandlerOptions{
				CustomConfig: createValidConfig(),
				Interpreter:  &MockInterpreter{},
				Logger:       logger.NewNoOpLogger(),
			},
		},
		{
			name: "default config and logger",
			opts: HandlerOptions{Interpreter: &MockInterpreter{}},
		},
		{
			name:    "missing interpreter",
			opts:    HandlerOptions{CustomConfig: createValidConfig()},
			wantErr: true,
			errMsg:  "interpreter is required",
		},
		{
			name: "invalid timeout",
			opts: HandlerOptions{
				CustomConfig: &Config{MaxJobsActive: 5, Timeout: -1 * time.Second},
				Interpreter:  &MockInterpreter{},
			},
			wantErr: true,
			errMsg:  "timeout must be positive",
		},
		{
			name: "invalid max jobs active",
			opts: HandlerOptions{
				CustomConfig: &Config{MaxJobsActive: 0, Timeout: time.Second},
				Interpreter:  &MockInterpreter{},
			},
			wantErr: true,
			errMsg:  "max_jobs_active must be positive",
		},
		{
			name: "negative retries",
			opts: HandlerOptions{
				CustomConfig: &Config{MaxJobsActive: 1, Timeout: time.Second, MaxRetries: -1},
				Interpreter:  &MockInterpreter{},
			},
			wantErr: true,
			errMsg:  "max_retries must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	interp := &MockInterpreter{}
	rec := createRecord()
	interp.On("Interpret", mock.Anything, "Singles tomorrow at 7pm", fixedNow).Return(rec, nil)

	h := createTestHandler(t, interp)
	out, err := h.Execute(context.Background(), &Input{RequestText: "Singles tomorrow at 7pm"})

	require.NoError(t, err)
	assert.Same(t, rec, out.Booking)
	assert.Equal(t, "2024-03-20 19:00", out.Display[booking.SectionCore]["Date & Time"])
	assert.Equal(t, "2", out.Display[booking.SectionMatch]["Number of Players"])
	assert.Len(t, out.Sections, len(booking.SectionOrder))
	assert.Equal(t, "2024-03-19T10:30:00Z", out.InterpretedAt)
	interp.AssertExpectations(t)
}

func TestHandler_Execute_ReferenceTime(t *testing.T) {
	ref := time.Date(2024, 1, 31, 22, 0, 0, 0, time.UTC)

	interp := &MockInterpreter{}
	interp.On("Interpret", mock.Anything, "tomorrow at 10am", mock.MatchedBy(func(now time.Time) bool {
		return now.Equal(ref)
	})).Return(createRecord(), nil)

	h := createTestHandler(t, interp)
	_, err := h.Execute(context.Background(), &Input{
		RequestText:   "tomorrow at 10am",
		ReferenceTime: "2024-01-31T22:00:00Z",
	})

	require.NoError(t, err)
	interp.AssertExpectations(t)
}

func TestHandler_Execute_RequestID(t *testing.T) {
	interp := &MockInterpreter{}
	interp.On("Interpret", mock.MatchedBy(func(ctx context.Context) bool {
		return interpreter.RequestIDFrom(ctx) == "proc-7"
	}), mock.Anything, mock.Anything).Return(createRecord(), nil)

	h := createTestHandler(t, interp)
	_, err := h.Execute(context.Background(), &Input{RequestText: "court", RequestID: "proc-7"})

	require.NoError(t, err)
	interp.AssertExpectations(t)
}

func TestHandler_Execute_InvalidReferenceTime(t *testing.T) {
	interp := &MockInterpreter{}
	h := createTestHandler(t, interp)

	out, err := h.Execute(context.Background(), &Input{RequestText: "court", ReferenceTime: "next week"})

	assert.Nil(t, out)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.CodeOf(err))
	interp.AssertNotCalled(t, "Interpret", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Execute_InterpreterErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
	}{
		{"model unavailable", errors.NewModelUnavailableError(stderrors.New("503")), errors.ErrCodeModelUnavailable},
		{"malformed response", errors.NewMalformedResponseError(stderrors.New("eof")), errors.ErrCodeMalformedResponse},
		{"unparseable timestamp", errors.NewUnparseableTimestampError("whenever"), errors.ErrCodeUnparseableTimestamp},
		{"empty request", errors.NewEmptyRequestError(), errors.ErrCodeEmptyRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interp := &MockInterpreter{}
			interp.On("Interpret", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)

			h := createTestHandler(t, interp)
			out, err := h.Execute(context.Background(), &Input{RequestText: "court"})

			assert.Nil(t, out)
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

// ==========================
// Retry Policy Tests
// ==========================

func TestHandler_RetriesFor(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		code       errors.ErrorCode
		remaining  int32
		want       int32
	}{
		{"model unavailable with budget", 3, errors.ErrCodeModelUnavailable, 5, 3},
		{"model unavailable capped by job", 3, errors.ErrCodeModelUnavailable, 2, 1},
		{"model unavailable on last attempt", 3, errors.ErrCodeModelUnavailable, 1, 0},
		{"model unavailable capped by worker", 1, errors.ErrCodeModelUnavailable, 5, 1},
		{"unknown remaining uses code budget", 3, errors.ErrCodeModelUnavailable, 0, 3},
		{"malformed response is final", 3, errors.ErrCodeMalformedResponse, 3, 0},
		{"unparseable timestamp is final", 3, errors.ErrCodeUnparseableTimestamp, 3, 0},
		{"validation is final", 3, errors.ErrCodeValidationFailed, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createValidConfig()
			cfg.MaxRetries = tt.maxRetries
			h, err := NewHandler(HandlerOptions{CustomConfig: cfg, Interpreter: &MockInterpreter{}, Logger: logger.NewNoOpLogger()})
			require.NoError(t, err)

			assert.Equal(t, tt.want, h.retriesFor(tt.code, tt.remaining))
		})
	}
}

// ==========================
// Input & Config Tests
// ==========================

func TestInput_FromJobVariables(t *testing.T) {
	job := createMockJob(42, map[string]interface{}{
		"requestText":   "Need a clay court tomorrow at 7pm",
		"referenceTime": "2024-03-19T10:30:00Z",
		"unrelated":     true,
	})

	var input Input
	require.NoError(t, json.Unmarshal([]byte(job.Variables), &input))
	assert.Equal(t, "Need a clay court tomorrow at 7pm", input.RequestText)
	assert.Equal(t, "2024-03-19T10:30:00Z", input.ReferenceTime)
	assert.Equal(t, int32(3), job.Retries)
}

func TestLoadConfig(t *testing.T) {
	cfg := &config.Config{
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: true, MaxJobsActive: 7, Timeout: 15000, MaxRetries: 2},
		},
	}

	wc := LoadConfig(cfg)
	assert.True(t, wc.Enabled)
	assert.Equal(t, 7, wc.MaxJobsActive)
	assert.Equal(t, 15*time.Second, wc.Timeout)
	assert.Equal(t, 2, wc.MaxRetries)
	assert.NoError(t, wc.Validate())
}
