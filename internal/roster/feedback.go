package roster

import (
	"errors"
	"time"
)

// Feedback is a client's verdict on a single suggested match. It is written
// by the feedback boundary and never consumed by the engine.
type Feedback struct {
	ID        string    `json:"id"`
	BriefID   string    `json:"brief_id"`
	CreatorID string    `json:"creator_id"`
	Rating    int       `json:"rating"`
	Helpful   bool      `json:"helpful"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (f *Feedback) Validate() error {
	if f == nil {
		return errors.New("feedback is required")
	}
	if f.BriefID == "" {
		return errors.New("feedback brief id is required")
	}
	if f.CreatorID == "" {
		return errors.New("feedback creator id is required")
	}
	if f.Rating < 1 || f.Rating > 5 {
		return errors.New("feedback rating must be between 1 and 5")
	}
	return nil
}
