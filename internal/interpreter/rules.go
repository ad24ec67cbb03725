package interpreter

import "tennis-booking/internal/models"

// applyRules fills unset fields from fields already known. Values supplied by
// the request are never overwritten.
func applyRules(rec *models.BookingRecord, cfg *Config) {
	if rec.MatchFormat != nil && rec.PlayerCount == nil {
		players := 2
		if *rec.MatchFormat == models.MatchFormatDoubles {
			players = 4
		}
		rec.PlayerCount = &players
	}

	if rec.LightingRequired == nil {
		hour := rec.ScheduledAt.Hour()
		lit := hour < cfg.LightingBeforeHour || hour >= cfg.LightingFromHour
		rec.LightingRequired = &lit
	}

	if rec.WeatherPreference != nil && rec.CourtSetting == nil {
		switch *rec.WeatherPreference {
		case models.WeatherCovered, models.WeatherTemperatureControlled:
			indoor := models.CourtSettingIndoor
			rec.CourtSetting = &indoor
		}
	}
}
