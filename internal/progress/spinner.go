package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	glyphSuccess = "✔"
	glyphFailure = "✖"
	glyphWarning = "⚠"
)

// Styles colors the spinner frame and the final glyphs.
type Styles struct {
	Frame   lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style
	Warning lipgloss.Style
}

// Options configure a Spinner.
type Options struct {
	// Animate redraws the line in place. Without it only final lines are written.
	Animate bool
	// Width truncates the live line; zero disables truncation.
	Width int
	// Interval overrides the frame rate of spinner.Dot.
	Interval time.Duration
	Styles   Styles
}

// Spinner is a Reporter that animates a single terminal line from a
// background goroutine.
type Spinner struct {
	writer        io.Writer
	opts          Options
	frames        []string
	frameInterval time.Duration

	wake   chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once

	mu       sync.Mutex
	text     string
	frameIdx int
}

// NewSpinner starts a spinner showing text on w. When animated, the first
// frame is drawn before NewSpinner returns.
func NewSpinner(w io.Writer, text string, opts Options) *Spinner {
	if w == nil {
		w = io.Discard
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = spinner.Dot.FPS
	}
	frames := make([]string, 0, len(spinner.Dot.Frames))
	for _, f := range spinner.Dot.Frames {
		frames = append(frames, strings.TrimSpace(f))
	}
	s := &Spinner{
		writer:        w,
		opts:          opts,
		frames:        frames,
		frameInterval: interval,
		wake:          make(chan struct{}, 1),
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		text:          text,
	}
	if opts.Animate {
		s.render()
		go s.loop()
	} else {
		close(s.doneCh)
	}
	return s
}

// NewFactory returns a Factory producing spinners on w.
func NewFactory(w io.Writer, opts Options) Factory {
	return func(initial string) Reporter {
		return NewSpinner(w, initial, opts)
	}
}

// Update replaces the live text.
func (s *Spinner) Update(text string) {
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Success stops the spinner and leaves a success line.
func (s *Spinner) Success(text string) { s.finish(s.opts.Styles.Success.Render(glyphSuccess), text) }

// Fail stops the spinner and leaves a failure line.
func (s *Spinner) Fail(text string) { s.finish(s.opts.Styles.Failure.Render(glyphFailure), text) }

// Warn stops the spinner and leaves a warning line.
func (s *Spinner) Warn(text string) { s.finish(s.opts.Styles.Warning.Render(glyphWarning), text) }

// Clear stops the spinner and erases its line.
func (s *Spinner) Clear() {
	s.once.Do(func() {
		s.stop()
		if s.opts.Animate {
			s.clearLine()
		}
	})
}

func (s *Spinner) finish(glyph, text string) {
	s.once.Do(func() {
		s.stop()
		if s.opts.Animate {
			s.clearLine()
		}
		_, _ = fmt.Fprintf(s.writer, "%s %s\n", glyph, text)
	})
}

func (s *Spinner) stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *Spinner) loop() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-s.wake:
			s.render()
		case <-ticker.C:
			s.render()
		}
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	frame := s.frames[s.frameIdx%len(s.frames)]
	s.frameIdx++
	text := s.text
	s.mu.Unlock()

	line := s.opts.Styles.Frame.Render(frame) + " " + text
	if s.opts.Width > 0 {
		line = ansi.Truncate(line, s.opts.Width-1, "…")
	}
	_, _ = fmt.Fprintf(s.writer, "\r\033[2K%s", line)
}

func (s *Spinner) clearLine() {
	_, _ = fmt.Fprint(s.writer, "\r\033[2K")
}
