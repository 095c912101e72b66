package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// spinnerFrames are drawn in turn while a task runs.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinnerOutput receives the status line of runWithSpinner.
var spinnerOutput io.Writer = os.Stderr

// spinner animates a status line while a long task runs (a render, a seed
// into a database). It stops by itself when the parent context ends.
type spinner struct {
	out    io.Writer
	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	message string
	width   int // widest line drawn so far
}

// startSpinner draws the first frame at once and animates until stop is
// called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	inner, cancel := context.WithCancel(ctx)
	s := &spinner{
		out:     w,
		parent:  ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
		message: message,
	}
	go s.run(inner)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.draw(spinnerFrames[i%len(spinnerFrames)])
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-ticker.C:
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	s.width = max(s.width, lipgloss.Width(line))
	fmt.Fprintf(s.out, "\r%s", line)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
}

// setMessage replaces the text shown from the next frame on.
func (s *spinner) setMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// stop ends the animation and clears the line. It is safe to call twice.
func (s *spinner) stop() {
	s.cancel()
	<-s.done
}

// interrupted reports whether the parent context ended, as on Ctrl+C.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}

// runWithSpinner runs task behind a spinner showing message.
func runWithSpinner(ctx context.Context, message string, task func() error) error {
	s := startSpinner(ctx, spinnerOutput, message)
	err := task()
	s.stop()
	if err == nil && s.interrupted() {
		return ctx.Err()
	}
	return err
}
