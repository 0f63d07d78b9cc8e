package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of deadline_date.
const DateLayout = "2006-01-02"

const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// DefaultStatuses is the status set accepted by the backend unless configured otherwise.
var DefaultStatuses = []string{StatusNotStarted, StatusInProgress, StatusCompleted}

type Problem struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Topic        string  `json:"topic"`
	Difficulty   int     `json:"difficulty"`
	Status       string  `json:"status"`
	DeadlineDate *string `json:"deadline_date"`
}

// UnmarshalJSON accepts the id as a JSON string or number and keeps it as
// text, so backends with integer keys decode too.
func (p *Problem) UnmarshalJSON(data []byte) error {
	type plain Problem
	aux := struct {
		ID json.RawMessage `json:"id"`
		*plain
	}{plain: (*plain)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	id, err := decodeID(aux.ID)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("problem id must be a string or number: %w", err)
	}
	return n.String(), nil
}

type CreateProblemRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=255"`
	Topic        string  `json:"topic" validate:"omitempty,max=1000"`
	Difficulty   *int    `json:"difficulty" validate:"required,min=1,max=5"`
	Status       string  `json:"status" validate:"omitempty,max=50"`
	DeadlineDate *string `json:"deadline_date"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,max=50"`
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// FormatDate renders t's calendar date, ignoring time of day.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
