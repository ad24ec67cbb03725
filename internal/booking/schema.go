// Package booking defines the booking record contract: the JSON Schema the
// language model is asked to follow, construction of a typed record from a
// loose field map, and the grouped display projection.
package booking

import (
	"encoding/json"
	"fmt"

	"tennis-booking/internal/models"
)

// SchemaVersion identifies the field catalogue and enum sets below.
const SchemaVersion = "2024-03.1"

const (
	DefaultLocation = "Main Tennis Center"
	DefaultDuration = 60
)

// Wire names of the record fields.
const (
	FieldDateTime              = "date_time"
	FieldLocation              = "location"
	FieldDurationMinutes       = "duration_minutes"
	FieldCourtType             = "court_type"
	FieldCourtLocation         = "court_location"
	FieldLightingRequired      = "lighting_required"
	FieldMatchType             = "match_type"
	FieldNumberOfPlayers       = "number_of_players"
	FieldSkillLevel            = "skill_level"
	FieldEquipmentRental       = "equipment_rental"
	FieldBallMachineRequired   = "ball_machine_required"
	FieldCoachingRequested     = "coaching_requested"
	FieldWeatherPreference     = "weather_preference"
	FieldTemperaturePreference = "temperature_preference"
	FieldSeatingRequired       = "seating_required"
	FieldRefreshmentsRequired  = "refreshments_required"
	FieldAdditionalNotes       = "additional_notes"
)

// Schema returns the JSON Schema of a constructed BookingRecord. A fresh map
// is built on every call so callers may mutate it.
func Schema() map[string]interface{} {
	return map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                "BookingDetails",
		"description":          "Structured tennis court booking request, schema version " + SchemaVersion,
		"type":                 "object",
		"additionalProperties": false,
		"required":             []interface{}{FieldDateTime, FieldLocation, FieldDurationMinutes},
		"properties": map[string]interface{}{
			FieldDateTime: map[string]interface{}{
				"type":        "string",
				"minLength":   1,
				"description": `When to play. Either a relative expression such as "tomorrow at 19:00" or an absolute "YYYY-MM-DD HH:MM", 24-hour clock`,
			},
			FieldLocation: map[string]interface{}{
				"type":        "string",
				"minLength":   1,
				"description": `Venue name; "` + DefaultLocation + `" when not mentioned`,
			},
			FieldDurationMinutes: map[string]interface{}{
				"type":        "integer",
				"minimum":     1,
				"default":     DefaultDuration,
				"description": "Length of the booking in minutes",
			},
			FieldCourtType:        enumProperty("Court surface", models.CourtSurfaces),
			FieldCourtLocation:    enumProperty("Indoor or outdoor court", models.CourtSettings),
			FieldLightingRequired: boolProperty("Whether court lighting is needed"),
			FieldMatchType:        enumProperty("Singles or doubles", models.MatchFormats),
			FieldNumberOfPlayers: map[string]interface{}{
				"type":        []interface{}{"integer", "null"},
				"minimum":     1,
				"description": "Number of players",
			},
			FieldSkillLevel: enumProperty("Skill level of the players", models.SkillLevels),
			FieldEquipmentRental: map[string]interface{}{
				"type":        []interface{}{"array", "null"},
				"description": "Equipment to rent",
				"items": map[string]interface{}{
					"type": "string",
					"enum": enumValues(models.EquipmentItems),
				},
			},
			FieldBallMachineRequired:   boolProperty("Whether a ball machine is needed"),
			FieldCoachingRequested:     boolProperty("Whether a coach is requested"),
			FieldWeatherPreference:     enumProperty("Preferred playing conditions", models.WeatherPreferences),
			FieldTemperaturePreference: textProperty("Preferred temperature, free text"),
			FieldSeatingRequired:       boolProperty("Whether spectator seating is needed"),
			FieldRefreshmentsRequired:  boolProperty("Whether refreshments are needed"),
			FieldAdditionalNotes:       textProperty("Anything else the player asked for"),
		},
	}
}

// DescribeSchema renders the schema as model format instructions.
func DescribeSchema() string {
	raw, err := json.Marshal(Schema())
	if err != nil {
		// Schema() is a static literal of JSON-safe values.
		panic(fmt.Sprintf("booking schema is not serializable: %v", err))
	}

	return "The output should be formatted as a JSON instance that conforms to the JSON schema below.\n\n" +
		"As an example, for the schema {\"properties\": {\"foo\": {\"title\": \"Foo\", \"description\": \"a list of strings\", " +
		"\"type\": \"array\", \"items\": {\"type\": \"string\"}}}, \"required\": [\"foo\"]}\n" +
		"the object {\"foo\": [\"bar\", \"baz\"]} is a well-formatted instance of the schema. " +
		"The object {\"properties\": {\"foo\": [\"bar\", \"baz\"]}} is not well-formatted.\n\n" +
		"Respond with the JSON object only. Use null for fields the request does not mention.\n\n" +
		"Here is the output schema:\n```\n" + string(raw) + "\n```"
}

func enumProperty[T ~string](description string, values []T) map[string]interface{} {
	choices := enumValues(values)
	choices = append(choices, nil)
	return map[string]interface{}{
		"type":        []interface{}{"string", "null"},
		"enum":        choices,
		"description": description,
	}
}

func enumValues[T ~string](values []T) []interface{} {
	out := make([]interface{}, 0, len(values)+1)
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

func boolProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        []interface{}{"boolean", "null"},
		"description": description,
	}
}

func textProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        []interface{}{"string", "null"},
		"description": description,
	}
}
