package db

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-enhancer/internal/cv"
)

// CV is a stored CV row. The embedded record carries the columns the normalizer reads.
type CV struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	cv.Record
	FilePath       string    `json:"file_path"`
	OriginalText   string    `json:"original_text"`
	CurrentVersion int       `json:"current_version"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Customization is one run of the match and suggestion engine against a job description.
type Customization struct {
	ID              uuid.UUID          `json:"id"`
	CVID            uuid.UUID          `json:"cv_id"`
	JobDescription  string             `json:"job_description"`
	MatchedKeywords StringArray        `json:"matched_keywords"`
	MissingKeywords StringArray        `json:"missing_keywords"`
	Score           int                `json:"score"`
	AIPowered       bool               `json:"ai_powered"`
	Suggestions     []StoredSuggestion `json:"suggestions"`
	CreatedAt       time.Time          `json:"created_at"`
}

// StoredSuggestion is a persisted suggestion with its applied flag.
type StoredSuggestion struct {
	ID              uuid.UUID  `json:"id"`
	CVID            uuid.UUID  `json:"cv_id"`
	CustomizationID *uuid.UUID `json:"customization_id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	SuggestionText  string     `json:"suggestion_text"`
	Section         string     `json:"section"`
	Source          string     `json:"source"`
	Position        int        `json:"-"`
	IsApplied       bool       `json:"is_applied"`
	CreatedAt       time.Time  `json:"created_at"`
}

// StringArray is a keyword list stored as a JSONB array.
type StringArray []string

// Scan implements sql.Scanner. NULL scans to an empty list.
func (a *StringArray) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = StringArray{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into StringArray", src)
	}
}

// Value implements driver.Valuer; nil is stored as an empty array.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}
