package models

import (
	"time"

	"cultivation-service/internal/utils"

	"github.com/google/uuid"
)

// ============================================================================
// CULTIVATION EVENTS
// ============================================================================

type CultivationEvent struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	CultivationID uuid.UUID     `json:"cultivation_id" db:"cultivation_id"`
	UserID        string        `json:"user_id" db:"user_id"`
	Type          EventType     `json:"type" db:"type"`
	Title         string        `json:"title" db:"title"`
	Description   *string       `json:"description,omitempty" db:"description"`
	EventDate     time.Time     `json:"event_date" db:"event_date"`
	Details       utils.JSONMap `json:"details,omitempty" db:"details"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// EnvironmentReading is the latest climate and solution measurements a grower
// logged in an event's details. EC is in mS/cm.
type EnvironmentReading struct {
	TemperatureC *float64  `json:"temperatura,omitempty"`
	HumidityPct  *float64  `json:"umidade,omitempty"`
	PH           *float64  `json:"ph,omitempty"`
	EC           *float64  `json:"ec,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// EnvironmentDetailKeys are the event detail keys that carry a reading.
var EnvironmentDetailKeys = []string{"temperatura", "umidade", "ph", "ec"}

func numberFrom(m utils.JSONMap, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

// Environment reads temperatura/umidade out of the event details. It returns
// nil when neither was recorded.
func (e *CultivationEvent) Environment() *EnvironmentReading {
	env := &EnvironmentReading{
		TemperatureC: numberFrom(e.Details, "temperatura"),
		HumidityPct:  numberFrom(e.Details, "umidade"),
		PH:           numberFrom(e.Details, "ph"),
		EC:           numberFrom(e.Details, "ec"),
		RecordedAt:   e.EventDate,
	}
	if env.TemperatureC == nil && env.HumidityPct == nil && env.PH == nil && env.EC == nil {
		return nil
	}
	return env
}

// ============================================================================
// IMAGES
// ============================================================================

type CultivationImage struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	CultivationID uuid.UUID  `json:"cultivation_id" db:"cultivation_id"`
	EventID       *uuid.UUID `json:"event_id,omitempty" db:"event_id"`
	UserID        string     `json:"user_id" db:"user_id"`
	ObjectKey     string     `json:"public_id" db:"object_key"`
	URL           string     `json:"secure_url" db:"url"`
	Filename      string     `json:"filename" db:"filename"`
	FileSize      int64      `json:"file_size" db:"file_size"`
	MIMEType      string     `json:"mime_type" db:"mime_type"`
	Width         *int       `json:"width,omitempty" db:"width"`
	Height        *int       `json:"height,omitempty" db:"height"`
	Format        string     `json:"format" db:"format"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}
