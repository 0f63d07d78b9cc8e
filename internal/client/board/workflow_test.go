package board_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"problemtracker/internal/client/api"
	"problemtracker/internal/client/board"
	"problemtracker/internal/client/view"
	"problemtracker/internal/server"
	storage "problemtracker/repository/inmemory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWorkflowAgainstServer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &server.Config{Addr: "127.0.0.1", Port: 0, Statuses: []string{"pending", "in-progress", "done"}}
	srvAPI := server.NewProblemAPI(cfg, storage.NewStorage(), zap.NewNop())
	require.NotNil(t, srvAPI)
	ts := httptest.NewServer(srvAPI.Handler())
	t.Cleanup(ts.Close)

	list := view.NewListView(io.Discard)
	form := view.NewFieldForm()
	dialog := view.NewDialog(io.Discard)
	prompter := &recordingPrompter{answer: true}

	b, err := board.New(board.Deps{
		API:       api.New(ts.URL, 5*time.Second),
		List:      list,
		Form:      form,
		Dialog:    dialog,
		Notifier:  prompter,
		Confirmer: prompter,
		Log:       zap.NewNop(),
	})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.Refresh(ctx))
	assert.Equal(t, board.EmptyPlaceholder, list.Placeholder())

	require.NoError(t, form.Set("title", "A"))
	require.NoError(t, form.Set("difficulty", "1"))
	require.NoError(t, form.Set("status", "pending"))
	require.NoError(t, b.Submit(ctx))

	items := list.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Title)
	assert.Equal(t, "pending", items[0].Status)
	assert.Equal(t, board.NotAvailable, items[0].Deadline)
	assert.Equal(t, board.FormValues{}, form.Values())

	_, err = items[0].Update(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pending", dialog.Status())
	dialog.SetStatus("done")
	require.NoError(t, b.SaveUpdate(ctx))

	items = list.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "done", items[0].Status)

	require.NoError(t, items[0].Delete(ctx))
	assert.Equal(t, board.EmptyPlaceholder, list.Placeholder())
	assert.Empty(t, list.Items())

	assert.Equal(t, []string{board.MsgUpdated, board.MsgDeleted}, prompter.messages)
}

func TestWorkflowRejectedByServer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := &server.Config{Addr: "127.0.0.1", Statuses: []string{"pending", "done"}}
	srvAPI := server.NewProblemAPI(cfg, storage.NewStorage(), zap.NewNop())
	ts := httptest.NewServer(srvAPI.Handler())
	t.Cleanup(ts.Close)

	list := view.NewListView(io.Discard)
	form := view.NewFieldForm()
	prompter := &recordingPrompter{answer: true}
	b, err := board.New(board.Deps{
		API:       api.New(ts.URL, 5*time.Second),
		List:      list,
		Form:      form,
		Dialog:    view.NewDialog(io.Discard),
		Notifier:  prompter,
		Confirmer: prompter,
	})
	require.NoError(t, err)

	require.NoError(t, form.Set("title", "A"))
	require.NoError(t, form.Set("difficulty", "many"))
	require.Error(t, b.Submit(context.Background()))

	assert.Equal(t, "A", form.Values().Title)
	assert.Equal(t, []string{board.MsgAddFailed}, prompter.messages)
	assert.Zero(t, list.Renders())
}

type recordingPrompter struct {
	answer   bool
	messages []string
}

func (p *recordingPrompter) Notify(m string)       { p.messages = append(p.messages, m) }
func (p *recordingPrompter) Confirm(_ string) bool { return p.answer }
