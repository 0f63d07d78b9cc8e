package storage

import (
	"context"
	"sort"
	"sync"

	"problemtracker/internal/domain/errors"
	"problemtracker/internal/domain/models"

	"github.com/google/uuid"
)

type entry struct {
	problem models.Problem
	seq     uint64
}

type Storage struct {
	mu       sync.RWMutex
	problems map[string]entry
	nextSeq  uint64
}

func NewStorage() *Storage {
	return &Storage{
		problems: make(map[string]entry),
	}
}

func (s *Storage) CreateProblem(ctx context.Context, problem *models.Problem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	problem.ID = uuid.New().String()
	s.nextSeq++
	s.problems[problem.ID] = entry{problem: *problem, seq: s.nextSeq}
	return nil
}

func (s *Storage) GetProblemByID(ctx context.Context, id string) (*models.Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.problems[id]
	if !exists {
		return nil, errors.ErrNotFound
	}
	p := e.problem
	return &p, nil
}

// ListProblems orders by difficulty, then deadline (missing deadlines last),
// then insertion order.
func (s *Storage) ListProblems(ctx context.Context) ([]models.Problem, error) {
	s.mu.RLock()
	entries := make([]entry, 0, len(s.problems))
	for _, e := range s.problems {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.problem.Difficulty != b.problem.Difficulty {
			return a.problem.Difficulty < b.problem.Difficulty
		}
		if c := compareDeadline(a.problem.DeadlineDate, b.problem.DeadlineDate); c != 0 {
			return c < 0
		}
		return a.seq < b.seq
	})

	problems := make([]models.Problem, 0, len(entries))
	for _, e := range entries {
		problems = append(problems, e.problem)
	}
	return problems, nil
}

func (s *Storage) UpdateStatus(ctx context.Context, id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.problems[id]
	if !exists {
		return errors.ErrNotFound
	}
	e.problem.Status = status
	s.problems[id] = e
	return nil
}

func (s *Storage) DeleteProblem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.problems[id]; !exists {
		return errors.ErrNotFound
	}
	delete(s.problems, id)
	return nil
}

// YYYY-MM-DD compares lexically.
func compareDeadline(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}
