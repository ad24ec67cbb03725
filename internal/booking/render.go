package booking

import (
	"fmt"
	"strconv"
	"strings"

	"tennis-booking/internal/models"
)

const (
	NotSpecified = "Not specified"
	None         = "None"
)

// Display section titles, in presentation order.
const (
	SectionCore        = "Core Details"
	SectionCourt       = "Court Specifications"
	SectionMatch       = "Match Details"
	SectionEquipment   = "Equipment & Amenities"
	SectionEnvironment = "Environmental Preferences"
	SectionAdditional  = "Additional Requirements"
)

var SectionOrder = []string{
	SectionCore,
	SectionCourt,
	SectionMatch,
	SectionEquipment,
	SectionEnvironment,
	SectionAdditional,
}

// LabelOrder lists each section's labels in presentation order.
var LabelOrder = map[string][]string{
	SectionCore:        {"Date & Time", "Location", "Duration"},
	SectionCourt:       {"Court Type", "Indoor/Outdoor", "Lighting Required"},
	SectionMatch:       {"Match Type", "Number of Players", "Skill Level"},
	SectionEquipment:   {"Equipment Rental", "Ball Machine", "Coaching"},
	SectionEnvironment: {"Weather", "Temperature"},
	SectionAdditional:  {"Seating", "Refreshments", "Notes"},
}

// Field is one label/value pair of a rendered section.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section is a titled, ordered group of display fields.
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Render projects a record into grouped display strings keyed by section
// title and then label.
func Render(rec *models.BookingRecord) map[string]map[string]string {
	return map[string]map[string]string{
		SectionCore: {
			"Date & Time": rec.ScheduledAt.Format(TimestampLayout),
			"Location":    rec.Location,
			"Duration":    fmt.Sprintf("%d minutes", rec.DurationMinutes),
		},
		SectionCourt: {
			"Court Type":        enumText(rec.CourtSurface),
			"Indoor/Outdoor":    enumText(rec.CourtSetting),
			"Lighting Required": flagText(rec.LightingRequired),
		},
		SectionMatch: {
			"Match Type":        enumText(rec.MatchFormat),
			"Number of Players": countText(rec.PlayerCount),
			"Skill Level":       enumText(rec.SkillLevel),
		},
		SectionEquipment: {
			"Equipment Rental": equipmentText(rec.EquipmentRequested),
			"Ball Machine":     flagText(rec.BallMachineRequired),
			"Coaching":         flagText(rec.CoachingRequested),
		},
		SectionEnvironment: {
			"Weather":     enumText(rec.WeatherPreference),
			"Temperature": textOr(rec.TemperaturePreference, NotSpecified),
		},
		SectionAdditional: {
			"Seating":      flagText(rec.SeatingRequired),
			"Refreshments": flagText(rec.RefreshmentsRequired),
			"Notes":        textOr(rec.AdditionalNotes, None),
		},
	}
}

// RenderSections is Render flattened into SectionOrder and LabelOrder.
func RenderSections(rec *models.BookingRecord) []Section {
	display := Render(rec)
	sections := make([]Section, 0, len(SectionOrder))
	for _, title := range SectionOrder {
		labels := LabelOrder[title]
		fields := make([]Field, 0, len(labels))
		for _, label := range labels {
			fields = append(fields, Field{Label: label, Value: display[title][label]})
		}
		sections = append(sections, Section{Title: title, Fields: fields})
	}
	return sections
}

func enumText[T ~string](v *T) string {
	if v == nil {
		return NotSpecified
	}
	return string(*v)
}

func flagText(v *bool) string {
	switch {
	case v == nil:
		return NotSpecified
	case *v:
		return "Yes"
	default:
		return "No"
	}
}

func countText(v *int) string {
	if v == nil {
		return NotSpecified
	}
	return strconv.Itoa(*v)
}

func equipmentText(items []models.Equipment) string {
	if len(items) == 0 {
		return None
	}
	names := make([]string, len(items))
	for i, e := range items {
		names[i] = string(e)
	}
	return strings.Join(names, ", ")
}

func textOr(v *string, placeholder string) string {
	if v == nil || *v == "" {
		return placeholder
	}
	return *v
}
