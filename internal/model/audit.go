package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// IntakeLog is one audited classification request
type IntakeLog struct {
	ID             int64     `json:"id" db:"id"`
	SessionID      *string   `json:"session_id,omitempty" db:"session_id"`
	RawText        string    `json:"raw_text" db:"raw_text"`
	UseAI          bool      `json:"use_ai" db:"use_ai"`
	Items          JSONItems `json:"items" db:"items"`
	UnknownCount   int       `json:"unknown_count" db:"unknown_count"`
	FallbackCount  int       `json:"fallback_count" db:"fallback_count"`
	ResponseTimeMs int       `json:"response_time_ms" db:"response_time_ms"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// JSONItems stores detected items in a JSONB column
type JSONItems []DetectedItem

// Value implements driver.Valuer interface
func (j JSONItems) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONItems) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported items column type %T", value)
	}
}
