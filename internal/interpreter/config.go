// internal/interpreter/config.go
package interpreter

import (
	"time"

	"tennis-booking/internal/booking"
	"tennis-booking/internal/common/config"
)

type Config struct {
	Model   string
	// Timeout bounds the model call on top of the caller's context. Zero
	// leaves the caller's deadline alone.
	Timeout time.Duration

	DefaultLocation    string
	DefaultDuration    int
	LightingBeforeHour int
	LightingFromHour   int
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Model:              cfg.LLM.Model,
		Timeout:            config.GetDuration(cfg.LLM.Timeout),
		DefaultLocation:    cfg.Booking.DefaultLocation,
		DefaultDuration:    cfg.Booking.DefaultDuration,
		LightingBeforeHour: cfg.Booking.LightingBeforeHour,
		LightingFromHour:   cfg.Booking.LightingFromHour,
	}
}

// DefaultConfig mirrors the original assistant: gpt-3.5-turbo at
// temperature zero, lighting outside 07:00-18:00.
func DefaultConfig() *Config {
	return &Config{
		Model:              "gpt-3.5-turbo",
		DefaultLocation:    booking.DefaultLocation,
		DefaultDuration:    booking.DefaultDuration,
		LightingBeforeHour: 7,
		LightingFromHour:   18,
	}
}
