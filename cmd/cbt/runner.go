package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	examsession "github.com/certprep/cbt/internal/domain/exam_session"
	"github.com/certprep/cbt/internal/service"
)

type exitReason int

const (
	exitQuit exitReason = iota
	exitSubmit
	exitTimeUp
)

// runner drives one session on the terminal.
type runner struct {
	session *examsession.Session
	surface *terminalSurface
	out     io.Writer
	width   func() int

	cur     int // focused question
	cursor  int // highlighted option of the focused question
	confirm bool
	message string
}

func (r *runner) loop(ctx context.Context, keys <-chan keyEvent, ticks <-chan int, expired <-chan struct{}, resize <-chan struct{}) exitReason {
	r.render()
	for {
		select {
		case <-ctx.Done():
			return exitQuit
		case <-expired:
			if r.session.Config.IsExam() {
				return exitTimeUp
			}
			r.message = "시간이 종료되었습니다. s 로 제출하세요."
		case <-ticks:
		case <-resize:
			r.session.Pages.Resize(r.width())
		case ev, ok := <-keys:
			if !ok {
				return exitQuit
			}
			if done, reason := r.handle(ev); done {
				return reason
			}
		}
		r.render()
	}
}

func (r *runner) handle(ev keyEvent) (bool, exitReason) {
	total := len(r.session.Questions)
	pages := r.session.Pages
	if ev.k != keySubmit {
		r.confirm = false
	}
	r.message = ""

	switch ev.k {
	case keyQuit:
		return true, exitQuit
	case keyUp:
		if r.cursor > 0 {
			r.cursor--
		}
	case keyDown:
		if r.cursor < len(r.session.Questions[r.cur].Options)-1 {
			r.cursor++
		}
	case keyLeft:
		if page := pages.PageOf(r.cur); page > 0 {
			start, _ := pages.PageBounds(page-1, total)
			r.focus(start)
		}
	case keyRight:
		if page := pages.PageOf(r.cur); page+1 < pages.PageCount(total) {
			start, _ := pages.PageBounds(page+1, total)
			r.focus(start)
		}
	case keyNext:
		if r.cur+1 < total {
			r.focus(r.cur + 1)
		}
	case keyPrev:
		if r.cur > 0 {
			r.focus(r.cur - 1)
		}
	case keyEnter:
		r.answer(r.cursor)
	case keyDigit:
		r.answer(ev.digit)
	case keyClear:
		_ = r.session.Clear(r.cur)
	case keySubmit:
		u := r.session.Answers.Unanswered()
		if u.Count > 0 && !r.confirm {
			r.confirm = true
			r.message = fmt.Sprintf("미응답 %d문항 (%s). 제출하려면 s 를 한 번 더 누르세요.", u.Count, joinInts(u.Positions))
			return false, exitQuit
		}
		return true, exitSubmit
	}
	return false, exitQuit
}

// focus moves to question index with the cursor on its current answer.
func (r *runner) focus(index int) {
	r.cur = index
	r.cursor = 0
	if sel := r.session.Selected(index); sel >= 0 {
		r.cursor = sel
	}
}

func (r *runner) answer(option int) {
	if err := r.session.Answer(r.cur, option); err != nil {
		r.message = "선택할 수 없는 보기입니다."
		return
	}
	r.cursor = option
}

func (r *runner) render() {
	fmt.Fprint(r.out, clearScreen)
	for _, line := range r.lines() {
		fmt.Fprint(r.out, line+"\r\n")
	}
}

func (r *runner) lines() []string {
	s := r.session
	l := layoutFrom(r.surface.style)
	width := r.width()
	if l.maxWidth > 0 && (width <= 0 || l.maxWidth < width) {
		width = l.maxWidth
	}

	var lines []string
	if l.padTop > 0 {
		title := "CBT 연습"
		if s.Config.IsExam() {
			title = "CBT 시험"
		}
		if s.Config.CertName != "" {
			title += " · " + s.Config.CertName
		}
		lines = append(lines, colorize(title, colorBold+colorCyan))
		for i := 1; i < l.padTop; i++ {
			lines = append(lines, "")
		}
	}

	total := len(s.Questions)
	page := s.Pages.PageOf(r.cur)
	u := s.Answers.Unanswered()
	lines = append(lines, fmt.Sprintf("남은 시간 %s | 제한 %d분 | 미응답 %d/%d | 페이지 %d/%d",
		colorize(s.Timer.Formatted(), colorYellow), s.Timer.LimitMinutes(), u.Count, total, page+1, s.Pages.PageCount(total)), "")

	start, end := s.Pages.PageBounds(page, total)
	for i := start; i < end; i++ {
		q := s.Questions[i]
		prefix := fmt.Sprintf("Q%d. ", i+1)
		color := colorBold
		if i == r.cur {
			color = colorBold + colorCyan
		}
		for j, text := range wrap(prefix+q.Prompt, width) {
			if j == 0 {
				text = colorize(text, color)
			}
			lines = append(lines, text)
		}
		selected := s.Selected(i)
		for j, opt := range q.Options {
			mark := "○"
			if j == selected {
				mark = colorize("●", colorGreen)
			}
			pointer := "  "
			if i == r.cur && j == r.cursor {
				pointer = colorize("> ", colorYellow)
			}
			lines = append(lines, fmt.Sprintf("%s%s %d) %s", pointer, mark, j+1, opt))
		}
		lines = append(lines, "")
	}

	lines = append(lines, colorize("↑/↓ 보기  Enter·숫자 선택  Tab/n·p 문항  ←/→ 페이지  c 지우기  s 제출  q 종료", colorYellow))
	if r.message != "" {
		lines = append(lines, colorize(r.message, colorRed))
	}
	return lines
}

// printSummary writes the result once the terminal is back in cooked mode.
func printSummary(w io.Writer, out service.Outcome, submitErr error) {
	res := out.Result
	fmt.Fprintln(w)
	fmt.Fprintln(w, colorize("결과", colorBold+colorCyan))
	fmt.Fprintf(w, "점수: %d점 (%d/%d 정답)\n", res.Score, res.Correct, res.Total)
	fmt.Fprintf(w, "남은 시간: %s\n", examsession.FormatSeconds(out.Record.LeftTime))
	if len(res.Wrong) > 0 {
		fmt.Fprintln(w, colorize("오답: "+joinInts(res.Wrong), colorRed))
	}
	if len(res.Unanswered) > 0 {
		fmt.Fprintln(w, colorize("미응답: "+joinInts(res.Unanswered), colorYellow))
	}
	switch {
	case submitErr != nil:
		fmt.Fprintln(w, colorize("기록 전송 실패: "+submitErr.Error(), colorRed))
	case out.Ack != nil:
		fmt.Fprintln(w, colorize("기록이 저장되었습니다.", colorGreen))
	}
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}
