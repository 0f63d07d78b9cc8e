package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"problemtracker/internal/domain/errors"
	"problemtracker/internal/domain/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS problems (
	seq           INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT UNIQUE NOT NULL,
	title         TEXT NOT NULL,
	topic         TEXT NOT NULL DEFAULT '',
	difficulty    INTEGER NOT NULL,
	status        TEXT NOT NULL DEFAULT 'Not Started',
	deadline_date TEXT
);
`

type row struct {
	ID           string         `db:"id"`
	Title        string         `db:"title"`
	Topic        string         `db:"topic"`
	Difficulty   int            `db:"difficulty"`
	Status       string         `db:"status"`
	DeadlineDate sql.NullString `db:"deadline_date"`
}

func (r row) toModel() models.Problem {
	p := models.Problem{
		ID:         r.ID,
		Title:      r.Title,
		Topic:      r.Topic,
		Difficulty: r.Difficulty,
		Status:     r.Status,
	}
	if r.DeadlineDate.Valid {
		d := r.DeadlineDate.String
		p.DeadlineDate = &d
	}
	return p
}

// Storage keeps problems in a SQLite database file.
type Storage struct {
	db *sqlx.DB
}

// NewStorage opens (creating if needed) the database at path.
// Use ":memory:" for a throwaway database.
func NewStorage(path string) (*Storage, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// a single connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) CreateProblem(ctx context.Context, problem *models.Problem) error {
	problem.ID = uuid.New().String()
	var deadline sql.NullString
	if problem.DeadlineDate != nil {
		deadline = sql.NullString{String: *problem.DeadlineDate, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO problems (id, title, topic, difficulty, status, deadline_date) VALUES (?, ?, ?, ?, ?, ?)`,
		problem.ID, problem.Title, problem.Topic, problem.Difficulty, problem.Status, deadline)
	if err != nil {
		return fmt.Errorf("insert problem: %w", err)
	}
	return nil
}

func (s *Storage) GetProblemByID(ctx context.Context, id string) (*models.Problem, error) {
	var r row
	err := s.db.GetContext(ctx, &r,
		`SELECT id, title, topic, difficulty, status, deadline_date FROM problems WHERE id = ?`, id)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get problem %s: %w", id, err)
	}
	p := r.toModel()
	return &p, nil
}

func (s *Storage) ListProblems(ctx context.Context) ([]models.Problem, error) {
	var rows []row
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, title, topic, difficulty, status, deadline_date FROM problems
		 ORDER BY difficulty ASC, deadline_date IS NULL, deadline_date ASC, seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	problems := make([]models.Problem, 0, len(rows))
	for _, r := range rows {
		problems = append(problems, r.toModel())
	}
	return problems, nil
}

func (s *Storage) UpdateStatus(ctx context.Context, id string, status string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE problems SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update problem %s: %w", id, err)
	}
	return requireAffected(res)
}

func (s *Storage) DeleteProblem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM problems WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete problem %s: %w", id, err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.ErrNotFound
	}
	return nil
}
