package server

import (
	"context"
	"time"

	"problemtracker/internal/domain/models"
)

// Seed inserts the two demo problems, due today.
func Seed(ctx context.Context, repo ProblemRepository, statuses []string) error {
	if len(statuses) == 0 {
		statuses = models.DefaultStatuses
	}
	today := models.FormatDate(time.Now())
	last := statuses[len(statuses)-1]
	middle := statuses[len(statuses)/2]

	demo := []models.Problem{
		{Title: "Two Sum", Topic: "Arrays", Difficulty: 1, Status: last, DeadlineDate: &today},
		{Title: "Binary Search", Topic: "Searching", Difficulty: 2, Status: middle, DeadlineDate: &today},
	}
	for i := range demo {
		if err := repo.CreateProblem(ctx, &demo[i]); err != nil {
			return err
		}
	}
	return nil
}
