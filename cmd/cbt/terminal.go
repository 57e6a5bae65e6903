package main

import (
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"github.com/certprep/cbt/internal/chrome"
)

const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"

	altScreenOn  = "\033[?1049h"
	altScreenOff = "\033[?1049l"
	clearScreen  = "\033[2J\033[H"
)

// defaultStyle frames the question area in practice mode: a header with
// padding below it and a readable column width.
const defaultStyle = "padding-top: 2; overflow: hidden; max-width: 72"

// terminalSurface is the chrome.Surface of the terminal: exam mode switches
// to the alternate screen and the main style drives the question layout.
type terminalSurface struct {
	out      io.Writer
	examMode bool
	style    string
}

var _ chrome.Surface = (*terminalSurface)(nil)

func newTerminalSurface(out io.Writer) *terminalSurface {
	return &terminalSurface{out: out, style: defaultStyle}
}

func (s *terminalSurface) SetExamMode(on bool) {
	if on == s.examMode {
		return
	}
	s.examMode = on
	if on {
		io.WriteString(s.out, altScreenOn)
	} else {
		io.WriteString(s.out, altScreenOff)
	}
}

func (s *terminalSurface) MainStyle() (string, bool) { return s.style, true }

func (s *terminalSurface) SetMainStyle(style string) { s.style = style }

// layout is the question area geometry derived from the surface style.
type layout struct {
	padTop   int
	maxWidth int // 0 = no limit
}

func layoutFrom(style string) layout {
	decls := chrome.ParseStyle(style)
	var l layout
	if v, ok := decls.Get("padding-top"); ok {
		l.padTop, _ = strconv.Atoi(strings.TrimSuffix(v, "px"))
	}
	if v, ok := decls.Get("max-width"); ok && v != "none" {
		l.maxWidth, _ = strconv.Atoi(strings.TrimSuffix(v, "px"))
	}
	return l
}

// rawMode puts fd into raw mode and returns the function restoring it.
func rawMode(fd int) (func(), error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { term.Restore(fd, state) }, nil
}

// termWidth returns the column count of stdout, or 0 when unknown.
func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

type key int

const (
	keyNone key = iota
	keyUp
	keyDown
	keyLeft
	keyRight
	keyEnter
	keyNext
	keyPrev
	keyDigit
	keyClear
	keySubmit
	keyQuit
)

type keyEvent struct {
	k     key
	digit int
}

// parseKeys decodes one read from a raw-mode terminal.
func parseKeys(buf []byte) []keyEvent {
	var out []keyEvent
	for i := 0; i < len(buf); i++ {
		b := buf[i]
		switch {
		case b == 27 && i+2 < len(buf) && buf[i+1] == '[':
			switch buf[i+2] {
			case 'A':
				out = append(out, keyEvent{k: keyUp})
			case 'B':
				out = append(out, keyEvent{k: keyDown})
			case 'C':
				out = append(out, keyEvent{k: keyRight})
			case 'D':
				out = append(out, keyEvent{k: keyLeft})
			}
			i += 2
		case b == '\r' || b == '\n':
			out = append(out, keyEvent{k: keyEnter})
		case b == '\t' || b == 'n':
			out = append(out, keyEvent{k: keyNext})
		case b == 'p':
			out = append(out, keyEvent{k: keyPrev})
		case b >= '1' && b <= '9':
			out = append(out, keyEvent{k: keyDigit, digit: int(b - '1')})
		case b == 'c':
			out = append(out, keyEvent{k: keyClear})
		case b == 's':
			out = append(out, keyEvent{k: keySubmit})
		case b == 'q' || b == 3: // ctrl-c arrives as a byte in raw mode
			out = append(out, keyEvent{k: keyQuit})
		}
	}
	return out
}

// readKeys forwards decoded keys until r fails, then closes out.
func readKeys(r io.Reader, out chan<- keyEvent) {
	defer close(out)
	buf := make([]byte, 16)
	for {
		n, err := r.Read(buf)
		if err != nil {
			return
		}
		for _, ev := range parseKeys(buf[:n]) {
			out <- ev
		}
	}
}

func colorize(s, color string) string {
	if color == "" {
		return s
	}
	return color + s + colorReset
}

// wrap breaks s into lines of at most width runes at spaces.
func wrap(s string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return []string{s}
	}
	var lines []string
	var line []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		if len(line) > 0 && len(line)+1+len(w) > width {
			lines = append(lines, string(line))
			line = line[:0]
		}
		if len(line) > 0 {
			line = append(line, ' ')
		}
		line = append(line, w...)
	}
	if len(line) > 0 {
		lines = append(lines, string(line))
	}
	return lines
}
