package board

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"problemtracker/internal/domain/models"
)

// FormValues are the raw field values of the creation form.
type FormValues struct {
	Title        string
	Topic        string
	Difficulty   string
	Status       string
	DeadlineDate string
}

// deadlineLayouts are the shapes a date picker may hand over.
var deadlineLayouts = []string{
	models.DateLayout,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

// NormalizeDeadline reduces a date selection to its calendar date in loc.
// Empty input means no deadline.
func NormalizeDeadline(raw string, loc *time.Location) (*string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		d := models.FormatDate(t.In(loc))
		return &d, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			d := models.FormatDate(t)
			return &d, nil
		}
	}
	return nil, fmt.Errorf("unrecognized deadline %q", raw)
}

// ParseDifficulty reads the leading integer of raw, ignoring leading blanks
// and anything after the digits. It returns nil when there is no number or
// it does not fit an int, so the backend gets null and rejects it.
func ParseDifficulty(raw string) *int {
	s := strings.TrimLeft(raw, " \t\n\r")
	sign := ""
	if s != "" && (s[0] == '+' || s[0] == '-') {
		sign, s = s[:1], s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		return nil
	}
	return &n
}

// newProblemRequest maps form values onto the create payload.
func newProblemRequest(v FormValues, loc *time.Location) (models.CreateProblemRequest, error) {
	deadline, err := NormalizeDeadline(v.DeadlineDate, loc)
	if err != nil {
		return models.CreateProblemRequest{}, err
	}
	return models.CreateProblemRequest{
		Title:        v.Title,
		Topic:        v.Topic,
		Difficulty:   ParseDifficulty(v.Difficulty),
		Status:       v.Status,
		DeadlineDate: deadline,
	}, nil
}
