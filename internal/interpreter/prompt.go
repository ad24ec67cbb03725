package interpreter

import (
	"fmt"
	"strings"

	"tennis-booking/internal/booking"
)

func buildSystemPrompt(defaultLocation string) string {
	var parts []string

	parts = append(parts, "You are a tennis court booking assistant. Parse the booking request and extract all relevant details.")
	parts = append(parts, fmt.Sprintf("If a detail is not mentioned, leave it as null, except for location which should default to %q if not specified.", defaultLocation))

	parts = append(parts, "\nFor the date and time, you MUST return them in one of these exact formats:")
	parts = append(parts, `1. For relative dates: "tomorrow at HH:MM" or "today at HH:MM" or "next tuesday at HH:MM"`)
	parts = append(parts, `2. For specific dates: "YYYY-MM-DD HH:MM"`)

	parts = append(parts, "\nAlways use 24-hour format for time (00-23). For example:")
	parts = append(parts, `- "7pm" should be "19:00"`)
	parts = append(parts, `- "9am" should be "09:00"`)
	parts = append(parts, `- "noon" should be "12:00"`)
	parts = append(parts, `- "midnight" should be "00:00"`)

	parts = append(parts, "\nExamples of correct date_time formats:")
	parts = append(parts, `- "Need a court tomorrow at 7pm" -> "tomorrow at 19:00"`)
	parts = append(parts, `- "Book for next Tuesday evening" -> "next tuesday at 19:00"`)
	parts = append(parts, `- "Want to play at 9am" -> "today at 09:00"`)
	parts = append(parts, `- "Book for March 25th at 3pm" -> "2024-03-25 15:00"`)

	parts = append(parts, "\nPlease pay special attention to the following aspects:")
	parts = append(parts, "1. Core booking details (date, time, location, duration)")
	parts = append(parts, "2. Court specifications (surface type, indoor/outdoor, lighting needs)")
	parts = append(parts, "3. Match details (singles/doubles, number of players, skill level)")
	parts = append(parts, "4. Equipment and amenities (racket rental, balls, ball machine, coaching)")
	parts = append(parts, "5. Environmental preferences (weather, temperature)")
	parts = append(parts, "6. Additional requirements (seating, refreshments)")

	parts = append(parts, "\n"+booking.DescribeSchema())

	return strings.Join(parts, "\n")
}

func buildUserPrompt(text string) string {
	return "Booking request: " + text
}

// stripCodeFence removes one surrounding Markdown code fence, with or without
// a language tag.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") || !strings.HasSuffix(s, "```") || len(s) < 6 {
		return s
	}
	inner := s[3 : len(s)-3]
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		tag := strings.TrimSpace(inner[:nl])
		if tag == "" || !strings.ContainsAny(tag, "{[") {
			inner = inner[nl+1:]
		}
	}
	return strings.TrimSpace(inner)
}
