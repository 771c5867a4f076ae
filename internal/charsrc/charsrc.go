// Package charsrc implements the line-by-line character iterator the lexer
// reads from: peek/advance with position tracking and a second-line-prompt
// (PS2) stack pushed by incomplete constructs.
package charsrc

import (
	"bufio"
	"io"
	"strings"

	"github.com/acmesh-lang/acmesh/internal/synerr"
	"github.com/acmesh-lang/acmesh/internal/token"
)

// LineReader supplies one line at a time, e.g. an interactive prompt or a
// buffered file/string reader. It returns io.EOF when exhausted.
type LineReader interface {
	// ReadLine returns the next line, newline included if present, after
	// writing prompt (the top of the PS2 stack, or the primary prompt) to
	// w when prompting is interactive.
	ReadLine(prompt string) (string, error)
}

// stdinReader reads lines from an io.Reader, printing prompts to w.
type stdinReader struct {
	r        *bufio.Reader
	w        io.Writer
	prompted bool
}

// NewReaderLineSource builds a LineReader over r that writes prompts to w
// before each line (used for the interactive REPL).
func NewReaderLineSource(r io.Reader, w io.Writer) LineReader {
	return &stdinReader{r: bufio.NewReader(r), w: w}
}

func (s *stdinReader) ReadLine(prompt string) (string, error) {
	if s.w != nil {
		_, _ = io.WriteString(s.w, prompt)
	}
	return s.r.ReadString('\n')
}

// StringLineSource feeds lines out of a fixed string, used by eval and tests.
// No prompts are ever written.
type StringLineSource struct {
	r *bufio.Reader
}

func NewStringLineSource(text string) *StringLineSource {
	return &StringLineSource{r: bufio.NewReader(strings.NewReader(text))}
}

func (s *StringLineSource) ReadLine(prompt string) (string, error) {
	return s.r.ReadString('\n')
}

// Source is the char-by-char iterator the lexer consumes.
type Source struct {
	reader LineReader
	prompt []string // PS2 stack; top of stack (last element) is the active prompt

	line       []rune
	lineNum    int
	col        int // 1-based column into line
	eof        bool
	pendingEOF bool // last ReadLine returned a non-empty final line plus an error
	errored    bool
}

const defaultPrompt = "> "

// New builds a Source over reader with "> " as the primary prompt.
func New(reader LineReader) *Source {
	return &Source{reader: reader, prompt: []string{defaultPrompt}, col: 1}
}

// PushPrompt pushes a secondary prompt (e.g. "pizza> ") used while the
// current logical line is incomplete.
func (s *Source) PushPrompt(p string) { s.prompt = append(s.prompt, p) }

// PopPrompt pops the most recently pushed prompt.
func (s *Source) PopPrompt() {
	if len(s.prompt) > 1 {
		s.prompt = s.prompt[:len(s.prompt)-1]
	}
}

func (s *Source) activePrompt() string { return s.prompt[len(s.prompt)-1] }

func (s *Source) refill() {
	if s.eof || s.errored {
		return
	}
	if s.pendingEOF {
		s.eof = true
		return
	}
	text, err := s.reader.ReadLine(s.activePrompt())
	if text == "" {
		s.eof = true
		return
	}
	s.line = []rune(text)
	s.lineNum++
	s.col = 1
	if err != nil {
		s.pendingEOF = true
	}
}

// Peek returns the next rune without consuming it, refilling from the
// underlying LineReader as needed.
func (s *Source) Peek() (rune, bool) {
	for s.col-1 >= len(s.line) && !s.eof && !s.errored {
		s.refill()
	}
	if s.col-1 >= len(s.line) {
		return 0, false
	}
	return s.line[s.col-1], true
}

// Advance consumes and returns the current rune.
func (s *Source) Advance() (rune, bool) {
	r, ok := s.Peek()
	if !ok {
		return 0, false
	}
	s.col++
	return r, true
}

// Position returns the position of the rune that would be returned by Peek.
func (s *Source) Position() token.Position {
	s.Peek()
	return token.Position{Line: s.lineNum, Column: s.col}
}

// NewError builds a synerr.Error at the current position.
func (s *Source) NewError(format string, args ...any) *synerr.Error {
	return synerr.New(s.Position(), format, args...)
}

// MarkErrored flags the source as errored; subsequent Peek/Advance report EOF.
func (s *Source) MarkErrored() { s.errored = true }

func (s *Source) Errored() bool { return s.errored }
