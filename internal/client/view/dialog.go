package view

import (
	"fmt"
	"io"
	"sync"
)

// Dialog is the status editor. It only prints when it opens.
type Dialog struct {
	mu      sync.Mutex
	w       io.Writer
	status  string
	visible bool
}

func NewDialog(w io.Writer) *Dialog {
	if w == nil {
		w = io.Discard
	}
	return &Dialog{w: w}
}

func (d *Dialog) SetStatus(status string) {
	d.mu.Lock()
	d.status = status
	d.mu.Unlock()
}

func (d *Dialog) Status() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

func (d *Dialog) Show() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.visible = true
	fmt.Fprintf(d.w, "Update status (current: %s)\n", d.status)
}

func (d *Dialog) Hide() {
	d.mu.Lock()
	d.visible = false
	d.mu.Unlock()
}

func (d *Dialog) Visible() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visible
}
