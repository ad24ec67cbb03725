package booking

import (
	"fmt"
	"strings"
	"time"

	"tennis-booking/internal/common/errors"
	"tennis-booking/internal/common/validation"
	"tennis-booking/internal/models"
)

// TimestampLayout is the absolute date/time form used in prompts and display.
const TimestampLayout = "2006-01-02 15:04"

// fieldAliases lets callers use the Go-side names instead of the wire names.
var fieldAliases = map[string]string{
	"scheduledAt":           FieldDateTime,
	"dateTime":              FieldDateTime,
	"durationMinutes":       FieldDurationMinutes,
	"courtSurface":          FieldCourtType,
	"courtType":             FieldCourtType,
	"courtSetting":          FieldCourtLocation,
	"courtLocation":         FieldCourtLocation,
	"lightingRequired":      FieldLightingRequired,
	"matchFormat":           FieldMatchType,
	"matchType":             FieldMatchType,
	"playerCount":           FieldNumberOfPlayers,
	"numberOfPlayers":       FieldNumberOfPlayers,
	"skillLevel":            FieldSkillLevel,
	"equipmentRequested":    FieldEquipmentRental,
	"equipmentRental":       FieldEquipmentRental,
	"ballMachineRequired":   FieldBallMachineRequired,
	"coachingRequested":     FieldCoachingRequested,
	"weatherPreference":     FieldWeatherPreference,
	"temperaturePreference": FieldTemperaturePreference,
	"seatingRequired":       FieldSeatingRequired,
	"refreshmentsRequired":  FieldRefreshmentsRequired,
	"additionalNotes":       FieldAdditionalNotes,
}

// NormalizeKeys rewrites alias keys to wire names. When both spellings are
// present the wire name wins.
func NormalizeKeys(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if wire, ok := fieldAliases[k]; ok {
			if _, exists := raw[wire]; exists {
				continue
			}
			out[wire] = v
			continue
		}
		out[k] = v
	}
	return out
}

// TryConstruct builds a fully typed record from a loose field map. Invalid
// optional values become unset; a missing or unparseable date_time fails with
// VALIDATION_FAILED.
func TryConstruct(raw map[string]interface{}) (*models.BookingRecord, error) {
	rec, _, err := Construct(raw)
	return rec, err
}

// Construct is TryConstruct that also reports which supplied fields were
// discarded during coercion, in schema field order.
func Construct(raw map[string]interface{}) (*models.BookingRecord, []string, error) {
	fields := NormalizeKeys(raw)
	var dropped []string
	drop := func(name string) {
		if v, present := fields[name]; present && v != nil {
			dropped = append(dropped, name)
		}
	}

	scheduledAt, ok := ParseTimestamp(fields[FieldDateTime])
	if !ok {
		if fields[FieldDateTime] == nil {
			return nil, nil, errors.NewValidationFailedError("date_time: required")
		}
		return nil, nil, errors.NewValidationFailedError(fmt.Sprintf("date_time: cannot parse %v", fields[FieldDateTime]))
	}

	rec := &models.BookingRecord{
		ScheduledAt:     scheduledAt,
		Location:        DefaultLocation,
		DurationMinutes: DefaultDuration,
	}

	if s, ok := CoerceText(fields[FieldLocation]); ok {
		rec.Location = s
	} else {
		drop(FieldLocation)
	}

	if n, ok := CoerceInt(fields[FieldDurationMinutes]); ok && n > 0 {
		rec.DurationMinutes = n
	} else {
		drop(FieldDurationMinutes)
	}

	if v, ok := CoerceEnum(fields[FieldCourtType], models.CourtSurfaces); ok {
		rec.CourtSurface = &v
	} else {
		drop(FieldCourtType)
	}

	if v, ok := CoerceEnum(fields[FieldCourtLocation], models.CourtSettings); ok {
		rec.CourtSetting = &v
	} else {
		drop(FieldCourtLocation)
	}

	rec.LightingRequired = coerceFlag(fields, FieldLightingRequired, drop)

	if v, ok := CoerceEnum(fields[FieldMatchType], models.MatchFormats); ok {
		rec.MatchFormat = &v
	} else {
		drop(FieldMatchType)
	}

	if n, ok := CoerceInt(fields[FieldNumberOfPlayers]); ok && n > 0 {
		rec.PlayerCount = &n
	} else {
		drop(FieldNumberOfPlayers)
	}

	if v, ok := CoerceEnum(fields[FieldSkillLevel], models.SkillLevels); ok {
		rec.SkillLevel = &v
	} else {
		drop(FieldSkillLevel)
	}

	if items, ok := CoerceEquipment(fields[FieldEquipmentRental]); ok {
		rec.EquipmentRequested = items
	} else {
		drop(FieldEquipmentRental)
	}

	rec.BallMachineRequired = coerceFlag(fields, FieldBallMachineRequired, drop)
	rec.CoachingRequested = coerceFlag(fields, FieldCoachingRequested, drop)

	if v, ok := CoerceEnum(fields[FieldWeatherPreference], models.WeatherPreferences); ok {
		rec.WeatherPreference = &v
	} else {
		drop(FieldWeatherPreference)
	}

	rec.TemperaturePreference = coerceNote(fields, FieldTemperaturePreference, drop)
	rec.SeatingRequired = coerceFlag(fields, FieldSeatingRequired, drop)
	rec.RefreshmentsRequired = coerceFlag(fields, FieldRefreshmentsRequired, drop)
	rec.AdditionalNotes = coerceNote(fields, FieldAdditionalNotes, drop)

	if err := Validate(rec); err != nil {
		return nil, nil, err
	}

	return rec, dropped, nil
}

// Validate checks a record against Schema().
func Validate(rec *models.BookingRecord) error {
	result, err := validation.ValidateDocument(Schema(), rec)
	if err != nil {
		return errors.NewValidationFailedError(err.Error())
	}
	if !result.Valid {
		return errors.NewValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

// ParseTimestamp accepts a time.Time, "YYYY-MM-DD HH:MM" in local time, or
// RFC 3339.
func ParseTimestamp(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case string:
		s := strings.TrimSpace(t)
		if parsed, err := time.ParseInLocation(TimestampLayout, s, time.Local); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func coerceFlag(fields map[string]interface{}, name string, drop func(string)) *bool {
	b, ok := CoerceBool(fields[name])
	if !ok {
		drop(name)
		return nil
	}
	return &b
}

func coerceNote(fields map[string]interface{}, name string, drop func(string)) *string {
	s, ok := CoerceText(fields[name])
	if !ok {
		drop(name)
		return nil
	}
	return &s
}
