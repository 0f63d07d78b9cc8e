package view

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// LineReader yields one line of user input per call, without the newline.
// *readline.Instance satisfies it.
type LineReader interface {
	Readline() (string, error)
}

// Asker is a LineReader that shows its own prompt for a question.
type Asker interface {
	Ask(question string) (string, error)
}

type scannerReader struct {
	sc *bufio.Scanner
}

// NewLineReader reads lines from r.
func NewLineReader(r io.Reader) LineReader {
	return &scannerReader{sc: bufio.NewScanner(r)}
}

func (s *scannerReader) Readline() (string, error) {
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Prompter notifies by printing and confirms with a (y/N) question.
type Prompter struct {
	mu sync.Mutex
	in LineReader
	w  io.Writer
	// AssumeYes answers every confirmation without reading input.
	AssumeYes bool
}

func NewPrompter(in LineReader, w io.Writer) *Prompter {
	if w == nil {
		w = io.Discard
	}
	return &Prompter{in: in, w: w}
}

func (p *Prompter) Notify(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, message)
}

// Confirm is false on anything but y/yes, including read errors.
func (p *Prompter) Confirm(message string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.AssumeYes {
		return true
	}
	question := message + " (y/N): "
	if p.in == nil {
		fmt.Fprintln(p.w, question)
		return false
	}

	var (
		line string
		err  error
	)
	if a, ok := p.in.(Asker); ok {
		line, err = a.Ask(question)
	} else {
		fmt.Fprint(p.w, question)
		line, err = p.in.Readline()
	}
	if err != nil {
		fmt.Fprintln(p.w)
		return false
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes"
}
