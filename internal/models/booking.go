package models

import "time"

type CourtSurface string

const (
	CourtSurfaceHard      CourtSurface = "hard"
	CourtSurfaceClay      CourtSurface = "clay"
	CourtSurfaceGrass     CourtSurface = "grass"
	CourtSurfaceSynthetic CourtSurface = "synthetic"
)

type CourtSetting string

const (
	CourtSettingIndoor  CourtSetting = "indoor"
	CourtSettingOutdoor CourtSetting = "outdoor"
)

type MatchFormat string

const (
	MatchFormatSingles MatchFormat = "singles"
	MatchFormatDoubles MatchFormat = "doubles"
)

type SkillLevel string

const (
	SkillLevelBeginner     SkillLevel = "beginner"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelAdvanced     SkillLevel = "advanced"
	SkillLevelProfessional SkillLevel = "professional"
)

type Equipment string

const (
	EquipmentRacket      Equipment = "racket"
	EquipmentBalls       Equipment = "balls"
	EquipmentBallMachine Equipment = "ball_machine"
	EquipmentShoes       Equipment = "shoes"
)

type WeatherPreference string

const (
	WeatherSunny                 WeatherPreference = "sunny"
	WeatherCovered               WeatherPreference = "covered"
	WeatherTemperatureControlled WeatherPreference = "temperature_controlled"
	WeatherAny                   WeatherPreference = "any"
)

// Declared vocabularies, in display order.
var (
	CourtSurfaces      = []CourtSurface{CourtSurfaceHard, CourtSurfaceClay, CourtSurfaceGrass, CourtSurfaceSynthetic}
	CourtSettings      = []CourtSetting{CourtSettingIndoor, CourtSettingOutdoor}
	MatchFormats       = []MatchFormat{MatchFormatSingles, MatchFormatDoubles}
	SkillLevels        = []SkillLevel{SkillLevelBeginner, SkillLevelIntermediate, SkillLevelAdvanced, SkillLevelProfessional}
	EquipmentItems     = []Equipment{EquipmentRacket, EquipmentBalls, EquipmentBallMachine, EquipmentShoes}
	WeatherPreferences = []WeatherPreference{WeatherSunny, WeatherCovered, WeatherTemperatureControlled, WeatherAny}
)

// BookingRecord is the structured interpretation of one free-text booking
// request. Pointer fields are tri-state: nil means the request did not say.
// JSON names match the keys the language model is asked to produce.
type BookingRecord struct {
	ScheduledAt     time.Time `json:"date_time"`
	Location        string    `json:"location"`
	DurationMinutes int       `json:"duration_minutes"`

	CourtSurface     *CourtSurface `json:"court_type"`
	CourtSetting     *CourtSetting `json:"court_location"`
	LightingRequired *bool         `json:"lighting_required"`

	MatchFormat *MatchFormat `json:"match_type"`
	PlayerCount *int         `json:"number_of_players"`
	SkillLevel  *SkillLevel  `json:"skill_level"`

	EquipmentRequested  []Equipment `json:"equipment_rental"`
	BallMachineRequired *bool       `json:"ball_machine_required"`
	CoachingRequested   *bool       `json:"coaching_requested"`

	WeatherPreference     *WeatherPreference `json:"weather_preference"`
	TemperaturePreference *string            `json:"temperature_preference"`

	SeatingRequired      *bool   `json:"seating_required"`
	RefreshmentsRequired *bool   `json:"refreshments_required"`
	AdditionalNotes      *string `json:"additional_notes"`
}
