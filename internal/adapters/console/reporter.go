// Package console renders build progress as plain lines on the
// terminal.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"

	"go.trai.ch/mason/internal/core/ports"
	"go.trai.ch/mason/internal/ui/output"
	"go.trai.ch/mason/internal/ui/style"
)

// Reporter implements ports.Reporter with termenv styling.
type Reporter struct {
	mu  sync.Mutex
	out *termenv.Output
}

var _ ports.Reporter = (*Reporter)(nil)

// New creates a Reporter writing to w. A nil writer defaults to stdout.
func New(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{out: output.New(w)}
}

func (r *Reporter) println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.out.WriteString(s + "\n")
}

// Command echoes a command line before it runs.
func (r *Reporter) Command(argv []string) {
	prompt := r.out.String("$").Foreground(style.Iris).String()
	r.println(prompt + " " + strings.Join(argv, " "))
}

// Skip reports a build set skipped as up to date.
func (r *Reporter) Skip(label string) {
	tag := r.out.String("SKIP").Foreground(style.Green).String()
	r.println(tag + " " + label)
}

// Replay prints the captured output of a build set under a label
// header. Nothing is printed for empty output.
func (r *Reporter) Replay(label string, captured []byte) {
	if len(captured) == 0 {
		return
	}

	header := r.out.String(style.Dot + " " + label).Foreground(style.Slate).String()

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = r.out.WriteString(header + "\n")
	_, _ = r.out.Write(captured)
	if captured[len(captured)-1] != '\n' {
		_, _ = r.out.WriteString("\n")
	}
}

// Remove reports a removed output path.
func (r *Reporter) Remove(path string) {
	r.println("rm " + path)
}

// RemoveFailed reports a path that could not be removed.
func (r *Reporter) RemoveFailed(path string, err error) {
	tag := r.out.String(style.Warning).Foreground(style.Yellow).String()
	r.println(fmt.Sprintf("%s cannot remove %s: %v", tag, path, err))
}

// Note prints a plain line.
func (r *Reporter) Note(msg string) {
	r.println(msg)
}
