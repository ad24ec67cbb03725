package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tennis-booking/internal/common/config"
	"tennis-booking/internal/common/logger"
	"tennis-booking/internal/llm"
)

type countingCompleter struct {
	response string
	calls    int
}

func (c *countingCompleter) Complete(context.Context, llm.Request) (string, error) {
	c.calls++
	return c.response, nil
}

func (c *countingCompleter) Provider() string { return "counting" }

func createTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "tennis-booking"},
		LLM: config.LLMConfig{Provider: "openai", Model: "gpt-3.5-turbo", Timeout: 5000},
		Booking: config.BookingConfig{
			DefaultLocation:    "Main Tennis Center",
			DefaultDuration:    60,
			LightingBeforeHour: 7,
			LightingFromHour:   18,
		},
		Cache: config.CacheConfig{TTL: 60, Prefix: "booking:completion:"},
	}
}

func TestBootstrap_WithoutCache(t *testing.T) {
	completer := &countingCompleter{response: `{"date_time": "2024-03-25 15:00"}`}

	svc, err := Bootstrap(context.Background(), createTestConfig(), logger.NewTestLogger(t), Options{Completer: completer})
	require.NoError(t, err)
	defer svc.Close()

	assert.Nil(t, svc.Cache)
	assert.Empty(t, svc.ReadinessChecks())
	assert.Same(t, completer, svc.Completer)

	rec, err := svc.Interpreter.Interpret(context.Background(), "court on the 25th at 3pm", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Main Tennis Center", rec.Location)
	assert.Equal(t, 60, rec.DurationMinutes)
}

func TestBootstrap_WithCache(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := createTestConfig()
	cfg.Cache.Enabled = true
	cfg.Cache.Redis.Address = mr.Addr()

	completer := &countingCompleter{response: `{"date_time": "2024-03-25 15:00", "match_type": "doubles"}`}

	svc, err := Bootstrap(context.Background(), cfg, logger.NewTestLogger(t), Options{Completer: completer})
	require.NoError(t, err)
	defer svc.Close()

	require.NotNil(t, svc.Cache)
	checks := svc.ReadinessChecks()
	require.Contains(t, checks, "cache")
	assert.NoError(t, checks["cache"](context.Background()))

	now := time.Date(2024, 3, 19, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		rec, err := svc.Interpreter.Interpret(context.Background(), "doubles on the 25th at 3pm", now)
		require.NoError(t, err)
		assert.Equal(t, 4, *rec.PlayerCount)
	}
	assert.Equal(t, 1, completer.calls)
	assert.Len(t, mr.Keys(), 1)
}

func TestBootstrap_ProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *config.Config)
		errMsg string
	}{
		{
			name:   "openai without key",
			mutate: func(cfg *config.Config) {},
			errMsg: "api_key is required",
		},
		{
			name:   "unknown provider",
			mutate: func(cfg *config.Config) { cfg.LLM.Provider = "palm" },
			errMsg: "unknown llm provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := createTestConfig()
			tt.mutate(cfg)

			svc, err := Bootstrap(context.Background(), cfg, logger.NewNoOpLogger(), Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Nil(t, svc)
		})
	}
}
