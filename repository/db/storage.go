package db

import (
	"context"
	stderrors "errors"
	"time"

	"problemtracker/internal/domain/errors"
	"problemtracker/internal/domain/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const queryTimeout = 15 * time.Second

type Storage struct {
	pool              *pgxpool.Pool
	log               *zap.Logger
	prepCreateProblem string
	prepGetProblem    string
	prepListProblems  string
	prepUpdateStatus  string
	prepDeleteProblem string
}

func NewStorage(connStr string, log *zap.Logger) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Error("database connect failed", zap.Error(err))
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error("database ping failed", zap.Error(err))
		return nil, err
	}

	s := &Storage{
		pool:              pool,
		log:               log,
		prepCreateProblem: `INSERT INTO problems (id, title, topic, difficulty, status, deadline_date) VALUES ($1, $2, $3, $4, $5, $6)`,
		prepGetProblem:    `SELECT id::text, title, topic, difficulty, status, to_char(deadline_date, 'YYYY-MM-DD') FROM problems WHERE id = $1`,
		prepListProblems:  `SELECT id::text, title, topic, difficulty, status, to_char(deadline_date, 'YYYY-MM-DD') FROM problems ORDER BY difficulty ASC, deadline_date ASC NULLS LAST, created_at ASC`,
		prepUpdateStatus:  `UPDATE problems SET status = $1 WHERE id = $2`,
		prepDeleteProblem: `DELETE FROM problems WHERE id = $1`,
	}
	log.Info("database connection established")
	return s, nil
}

func (s *Storage) Close() {
	s.pool.Close()
}

func (s *Storage) CreateProblem(ctx context.Context, problem *models.Problem) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	deadline, err := deadlineArg(problem.DeadlineDate)
	if err != nil {
		return err
	}
	problem.ID = uuid.New().String()
	_, err = s.pool.Exec(ctx, s.prepCreateProblem,
		problem.ID, problem.Title, problem.Topic, problem.Difficulty, problem.Status, deadline)
	if err != nil {
		s.log.Error("create problem failed", zap.Error(err))
		return errors.ErrConflict
	}
	s.log.Debug("problem created", zap.String("id", problem.ID))
	return nil
}

func (s *Storage) GetProblemByID(ctx context.Context, id string) (*models.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return nil, errors.ErrNotFound
	}

	problem := &models.Problem{}
	row := s.pool.QueryRow(ctx, s.prepGetProblem, id)
	if err := scanProblem(row, problem); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.ErrNotFound
		}
		s.log.Error("get problem failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return problem, nil
}

func (s *Storage) ListProblems(ctx context.Context) ([]models.Problem, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, s.prepListProblems)
	if err != nil {
		s.log.Error("list problems failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	problems := []models.Problem{}
	for rows.Next() {
		var p models.Problem
		if err := scanProblem(rows, &p); err != nil {
			s.log.Error("scan problem failed", zap.Error(err))
			return nil, err
		}
		problems = append(problems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return problems, nil
}

func (s *Storage) UpdateStatus(ctx context.Context, id string, status string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return errors.ErrNotFound
	}
	ct, err := s.pool.Exec(ctx, s.prepUpdateStatus, status, id)
	if err != nil {
		s.log.Error("update status failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (s *Storage) DeleteProblem(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := uuid.Parse(id); err != nil {
		return errors.ErrNotFound
	}
	ct, err := s.pool.Exec(ctx, s.prepDeleteProblem, id)
	if err != nil {
		s.log.Error("delete problem failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func scanProblem(row pgx.Row, p *models.Problem) error {
	return row.Scan(&p.ID, &p.Title, &p.Topic, &p.Difficulty, &p.Status, &p.DeadlineDate)
}

func deadlineArg(deadline *string) (*time.Time, error) {
	if deadline == nil {
		return nil, nil
	}
	t, err := models.ParseDate(*deadline)
	if err != nil {
		return nil, errors.ErrInvalidDeadline
	}
	return &t, nil
}
