// Package board keeps a rendered problem list in sync with the backend.
//
// Every mutation is followed by a full re-fetch and re-render; the board
// holds no copy of the collection between calls.
package board

import (
	"context"
	stderrors "errors"
	"strconv"
	"sync"
	"time"

	"problemtracker/internal/domain/models"

	"go.uber.org/zap"
)

const (
	MsgFetchFailed   = "Error fetching problems"
	MsgAddFailed     = "Error adding problem"
	MsgLoadFailed    = "Error loading problem"
	MsgUpdateFailed  = "Error updating problem"
	MsgUpdated       = "Problem updated successfully!"
	MsgDeleteFailed  = "Error deleting problem"
	MsgDeleted       = "Problem deleted successfully!"
	MsgConfirmDelete = "Are you sure you want to delete this problem?"

	EmptyPlaceholder = "No problems present"
	NotAvailable     = "N/A"
)

var (
	ErrMissingDependency = stderrors.New("board: missing dependency")
	ErrNoActiveSession   = stderrors.New("board: no update in progress")
	ErrDeleteDeclined    = stderrors.New("board: delete not confirmed")
)

type ProblemsAPI interface {
	ListProblems(ctx context.Context) ([]models.Problem, error)
	GetProblem(ctx context.Context, id string) (*models.Problem, error)
	CreateProblem(ctx context.Context, req models.CreateProblemRequest) (*models.Problem, error)
	UpdateStatus(ctx context.Context, id string, status string) (*models.Problem, error)
	DeleteProblem(ctx context.Context, id string) error
}

// ListView receives full replacements of the rendered list.
type ListView interface {
	ShowProblems(items []Item)
	ShowPlaceholder(message string)
}

type Form interface {
	Values() FormValues
	Reset()
}

// StatusDialog is the modal used to edit a single problem's status.
type StatusDialog interface {
	SetStatus(status string)
	Status() string
	Show()
	Hide()
}

type Notifier interface {
	Notify(message string)
}

type Confirmer interface {
	Confirm(message string) bool
}

// Item is one rendered entry. Update and Delete are bound to ID.
type Item struct {
	ID         string
	Title      string
	Status     string
	Difficulty string
	Deadline   string
	Topic      string

	Update func(ctx context.Context) (*UpdateSession, error)
	Delete func(ctx context.Context) error
}

// UpdateSession binds an open status dialog to the problem it saves against.
type UpdateSession struct {
	id       string
	original models.Problem
}

func (s *UpdateSession) ID() string { return s.id }

// Problem is the record as it was when the dialog opened.
func (s *UpdateSession) Problem() models.Problem { return s.original }

type Deps struct {
	API       ProblemsAPI
	List      ListView
	Form      Form
	Dialog    StatusDialog
	Notifier  Notifier
	Confirmer Confirmer
	Log       *zap.Logger
	// Location turns date selections into calendar dates; defaults to time.Local.
	Location *time.Location
}

type Board struct {
	api       ProblemsAPI
	list      ListView
	form      Form
	dialog    StatusDialog
	notifier  Notifier
	confirmer Confirmer
	log       *zap.Logger
	loc       *time.Location

	mu     sync.Mutex
	active *UpdateSession
}

func New(d Deps) (*Board, error) {
	if d.API == nil || d.List == nil || d.Form == nil || d.Dialog == nil || d.Notifier == nil || d.Confirmer == nil {
		return nil, ErrMissingDependency
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	return &Board{
		api:       d.API,
		list:      d.List,
		form:      d.Form,
		dialog:    d.Dialog,
		notifier:  d.Notifier,
		confirmer: d.Confirmer,
		log:       d.Log,
		loc:       d.Location,
	}, nil
}

// Refresh fetches the whole collection and replaces the rendered list.
// On failure the previous render stays as it was.
func (b *Board) Refresh(ctx context.Context) error {
	problems, err := b.api.ListProblems(ctx)
	if err != nil {
		b.fail(MsgFetchFailed, err)
		return err
	}

	if len(problems) == 0 {
		b.list.ShowPlaceholder(EmptyPlaceholder)
		return nil
	}
	items := make([]Item, 0, len(problems))
	for _, p := range problems {
		items = append(items, b.item(p))
	}
	b.list.ShowProblems(items)
	return nil
}

// Submit sends the creation form. The form is reset only on success.
func (b *Board) Submit(ctx context.Context) error {
	req, err := newProblemRequest(b.form.Values(), b.loc)
	if err != nil {
		b.fail(MsgAddFailed, err)
		return err
	}

	if _, err := b.api.CreateProblem(ctx, req); err != nil {
		b.fail(MsgAddFailed, err)
		return err
	}

	b.form.Reset()
	b.refreshAfterMutation(ctx)
	return nil
}

// OpenUpdate loads one problem into the status dialog and makes it the
// target of the next SaveUpdate, replacing any earlier session.
func (b *Board) OpenUpdate(ctx context.Context, id string) (*UpdateSession, error) {
	problem, err := b.api.GetProblem(ctx, id)
	if err != nil {
		b.fail(MsgLoadFailed, err)
		return nil, err
	}

	session := &UpdateSession{id: id, original: *problem}
	b.mu.Lock()
	b.active = session
	b.mu.Unlock()

	b.dialog.SetStatus(problem.Status)
	b.dialog.Show()
	return session, nil
}

// ActiveSession returns the session SaveUpdate would use, or nil.
func (b *Board) ActiveSession() *UpdateSession {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

// SaveUpdate submits the dialog's status for the active session.
func (b *Board) SaveUpdate(ctx context.Context) error {
	session := b.ActiveSession()
	if session == nil {
		return ErrNoActiveSession
	}

	if _, err := b.api.UpdateStatus(ctx, session.id, b.dialog.Status()); err != nil {
		b.fail(MsgUpdateFailed, err)
		return err
	}

	b.notifier.Notify(MsgUpdated)
	b.endSession(session)
	b.dialog.Hide()
	b.refreshAfterMutation(ctx)
	return nil
}

// CloseUpdate closes the dialog without saving.
func (b *Board) CloseUpdate() {
	if session := b.ActiveSession(); session != nil {
		b.endSession(session)
	}
	b.dialog.Hide()
}

// Delete removes a problem once the user confirms. Declining makes no request.
func (b *Board) Delete(ctx context.Context, id string) error {
	if !b.confirmer.Confirm(MsgConfirmDelete) {
		return ErrDeleteDeclined
	}

	if err := b.api.DeleteProblem(ctx, id); err != nil {
		b.fail(MsgDeleteFailed, err)
		return err
	}

	b.notifier.Notify(MsgDeleted)
	b.refreshAfterMutation(ctx)
	return nil
}

func (b *Board) endSession(session *UpdateSession) {
	b.mu.Lock()
	if b.active == session {
		b.active = nil
	}
	b.mu.Unlock()
}

// refreshAfterMutation reports its own failures; the mutation already succeeded.
func (b *Board) refreshAfterMutation(ctx context.Context) {
	_ = b.Refresh(ctx)
}

func (b *Board) fail(message string, err error) {
	b.notifier.Notify(message)
	b.log.Error(message, zap.Error(err))
}

func (b *Board) item(p models.Problem) Item {
	id := p.ID
	deadline := NotAvailable
	if p.DeadlineDate != nil && *p.DeadlineDate != "" {
		deadline = *p.DeadlineDate
	}
	topic := NotAvailable
	if p.Topic != "" {
		topic = p.Topic
	}
	return Item{
		ID:         id,
		Title:      p.Title,
		Status:     p.Status,
		Difficulty: strconv.Itoa(p.Difficulty),
		Deadline:   deadline,
		Topic:      topic,
		Update: func(ctx context.Context) (*UpdateSession, error) {
			return b.OpenUpdate(ctx, id)
		},
		Delete: func(ctx context.Context) error {
			return b.Delete(ctx, id)
		},
	}
}
