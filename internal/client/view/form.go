package view

import (
	"fmt"
	"sync"

	"problemtracker/internal/client/board"
)

const (
	FieldTitle        = "title"
	FieldTopic        = "topic"
	FieldDifficulty   = "difficulty"
	FieldStatus       = "status"
	FieldDeadlineDate = "deadline_date"
)

// Fields lists the creation form inputs in display order.
var Fields = []string{FieldTitle, FieldTopic, FieldDifficulty, FieldStatus, FieldDeadlineDate}

// FieldForm holds the creation form's raw input by field name.
type FieldForm struct {
	mu     sync.Mutex
	values map[string]string
}

func NewFieldForm() *FieldForm {
	return &FieldForm{values: make(map[string]string, len(Fields))}
}

func (f *FieldForm) Set(name, value string) error {
	if !knownField(name) {
		return fmt.Errorf("unknown field %q", name)
	}
	f.mu.Lock()
	f.values[name] = value
	f.mu.Unlock()
	return nil
}

func (f *FieldForm) Values() board.FormValues {
	f.mu.Lock()
	defer f.mu.Unlock()
	return board.FormValues{
		Title:        f.values[FieldTitle],
		Topic:        f.values[FieldTopic],
		Difficulty:   f.values[FieldDifficulty],
		Status:       f.values[FieldStatus],
		DeadlineDate: f.values[FieldDeadlineDate],
	}
}

func (f *FieldForm) Reset() {
	f.mu.Lock()
	f.values = make(map[string]string, len(Fields))
	f.mu.Unlock()
}

func knownField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}
