// Package view renders the problem board on a terminal.
package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"problemtracker/internal/client/board"
)

// ListView prints each snapshot as a table and keeps the last one so rows
// can be addressed by position.
type ListView struct {
	mu          sync.Mutex
	w           io.Writer
	items       []board.Item
	placeholder string
	renders     int
}

func NewListView(w io.Writer) *ListView {
	if w == nil {
		w = io.Discard
	}
	return &ListView{w: w}
}

func (v *ListView) ShowProblems(items []board.Item) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.items = append([]board.Item(nil), items...)
	v.placeholder = ""
	v.renders++

	tw := tabwriter.NewWriter(v.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTitle\tStatus\tDifficulty\tDeadline\tTopic\tID")
	fmt.Fprintln(tw, "-\t-----\t------\t----------\t--------\t-----\t--")
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, it.Title, it.Status, it.Difficulty, it.Deadline, it.Topic, it.ID)
	}
	tw.Flush()
}

func (v *ListView) ShowPlaceholder(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.items = nil
	v.placeholder = message
	v.renders++
	fmt.Fprintln(v.w, message)
}

// Items returns the rows of the last rendered snapshot.
func (v *ListView) Items() []board.Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]board.Item(nil), v.items...)
}

// Placeholder is the message shown instead of rows, if any.
func (v *ListView) Placeholder() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.placeholder
}

func (v *ListView) Renders() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders
}

// Lookup finds a row by problem id, falling back to its 1-based position
// when no id matches.
func (v *ListView) Lookup(ref string) (board.Item, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	ref = strings.TrimSpace(ref)
	for _, it := range v.items {
		if it.ID == ref {
			return it, true
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(v.items) {
		return v.items[n-1], true
	}
	return board.Item{}, false
}
