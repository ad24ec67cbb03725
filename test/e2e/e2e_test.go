// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tennis-booking/internal/api"
	"tennis-booking/internal/app"
	"tennis-booking/internal/booking"
	"tennis-booking/internal/common/config"
	"tennis-booking/internal/common/logger"
)

// fakeOpenAI answers chat completions from a table keyed by a substring of
// the user prompt.
type fakeOpenAI struct {
	answers map[string]string
	calls   atomic.Int32
}

func (f *fakeOpenAI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)

	var req struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) < 2 {
		http.Error(w, `{"error":{"message":"bad request"}}`, http.StatusBadRequest)
		return
	}
	user := strings.ToLower(req.Messages[len(req.Messages)-1].Content)

	if strings.Contains(user, "overloaded") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"The server is overloaded","type":"server_error"}}`))
		return
	}

	content := "{}"
	for needle, answer := range f.answers {
		if strings.Contains(user, needle) {
			content = answer
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"id":     "chatcmpl-e2e",
		"object": "chat.completion",
		"model":  "gpt-3.5-turbo",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]string{"role": "assistant", "content": content},
			},
		},
	})
}

type stack struct {
	server *httptest.Server
	model  *fakeOpenAI
	redis  *miniredis.Miniredis
}

func startStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)
	for _, key := range []string{"LLM_PROVIDER", "LLM_MODEL", "OPENAI_API_KEY", "OPENAI_BASE_URL", "REDIS_ADDRESS", "ZEEBE_ADDRESS", "JAEGER_ENDPOINT"} {
		t.Setenv(key, "")
	}

	model := &fakeOpenAI{answers: map[string]string{
		"clay court tomorrow": `{"date_time": "tomorrow at 19:00", "court_type": "clay", "match_type": "doubles", "equipment_rental": ["racket"]}`,
		"ball machine":        "```json\n{\"date_time\": \"2024-03-25 15:00\", \"duration_minutes\": 90, \"ball_machine_required\": true, \"weather_preference\": \"covered\"}\n```",
		"gibberish":           "I am not sure what you mean.",
		"no time":             `{"location": "Riverside Club"}`,
	}}
	modelServer := httptest.NewServer(model)
	t.Cleanup(modelServer.Close)

	mr := miniredis.RunT(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf(`
app:
  name: tennis-booking-e2e
server:
  rate_limit_rps: 100
  rate_limit_burst: 100
llm:
  provider: openai
  openai:
    api_key: sk-e2e
    base_url: %s/v1
cache:
  enabled: true
  redis:
    address: %s
`, modelServer.URL, mr.Addr())), 0o600))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)

	log := logger.NewTestLogger(t)
	services, err := app.Bootstrap(context.Background(), cfg, log, app.Options{})
	require.NoError(t, err)
	t.Cleanup(services.Close)

	router := api.NewRouter(api.RouterOptions{
		Interpreter: services.Interpreter,
		Server:      cfg.Server,
		Service:     cfg.App.Name,
		Version:     "e2e",
		Checks:      services.ReadinessChecks(),
		Logger:      log,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &stack{server: server, model: model, redis: mr}
}

func (s *stack) interpret(t *testing.T, text string) (int, map[string]interface{}) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"request":       text,
		"referenceTime": "2024-03-19T10:30:00Z",
	})
	resp, err := http.Post(s.server.URL+"/api/v1/bookings/interpret", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func display(t *testing.T, body map[string]interface{}, section, label string) string {
	t.Helper()
	sections, ok := body["display"].(map[string]interface{})
	require.True(t, ok, "display missing: %v", body)
	fields, ok := sections[section].(map[string]interface{})
	require.True(t, ok, "section %q missing", section)
	value, _ := fields[label].(string)
	return value
}

func TestFullE2E(t *testing.T) {
	s := startStack(t)

	t.Run("ready", func(t *testing.T) {
		resp, err := http.Get(s.server.URL + "/ready")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("relative request with defaults", func(t *testing.T) {
		status, body := s.interpret(t, "Need a clay court tomorrow at 7pm for doubles, I need a racket")
		require.Equal(t, http.StatusOK, status, "%v", body)

		assert.Equal(t, "2024-03-20 19:00", display(t, body, booking.SectionCore, "Date & Time"))
		assert.Equal(t, "Main Tennis Center", display(t, body, booking.SectionCore, "Location"))
		assert.Equal(t, "60 minutes", display(t, body, booking.SectionCore, "Duration"))
		assert.Equal(t, "clay", display(t, body, booking.SectionCourt, "Court Type"))
		assert.Equal(t, "Yes", display(t, body, booking.SectionCourt, "Lighting Required"))
		assert.Equal(t, "4", display(t, body, booking.SectionMatch, "Number of Players"))
		assert.Equal(t, "racket", display(t, body, booking.SectionEquipment, "Equipment Rental"))
		assert.Equal(t, booking.NotSpecified, display(t, body, booking.SectionMatch, "Skill Level"))
		assert.Equal(t, booking.None, display(t, body, booking.SectionAdditional, "Notes"))
	})

	t.Run("repeat request is served from cache", func(t *testing.T) {
		before := s.model.calls.Load()
		status, _ := s.interpret(t, "Need a clay court tomorrow at 7pm for doubles, I need a racket")
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, before, s.model.calls.Load())
		assert.NotEmpty(t, s.redis.Keys())
	})

	t.Run("fenced answer with covered weather", func(t *testing.T) {
		status, body := s.interpret(t, "Ball machine practice on March 25 at 3pm for 90 minutes, somewhere covered")
		require.Equal(t, http.StatusOK, status, "%v", body)

		assert.Equal(t, "2024-03-25 15:00", display(t, body, booking.SectionCore, "Date & Time"))
		assert.Equal(t, "90 minutes", display(t, body, booking.SectionCore, "Duration"))
		assert.Equal(t, "indoor", display(t, body, booking.SectionCourt, "Indoor/Outdoor"))
		assert.Equal(t, "No", display(t, body, booking.SectionCourt, "Lighting Required"))
		assert.Equal(t, "Yes", display(t, body, booking.SectionEquipment, "Ball Machine"))
	})

	t.Run("failures map to codes", func(t *testing.T) {
		tests := []struct {
			text string
			code string
		}{
			{"gibberish please", "MALFORMED_RESPONSE"},
			{"a court with no time given", "UNPARSEABLE_TIMESTAMP"},
			{"the model is overloaded", "MODEL_UNAVAILABLE"},
		}
		for _, tt := range tests {
			status, body := s.interpret(t, tt.text)
			assert.Equal(t, http.StatusUnprocessableEntity, status, tt.text)
			assert.Equal(t, "could not process the request", body["error"])
			assert.Equal(t, tt.code, body["code"], tt.text)
		}
	})
}
