package grader

import (
	"math"

	examsession "github.com/certprep/cbt/internal/domain/exam_session"
	"github.com/certprep/cbt/internal/domain/questionbank"
)

// Result is the outcome of grading one answer set.
type Result struct {
	Correct    int
	Total      int
	Score      int   // 0-100
	Wrong      []int // 1-based positions answered incorrectly
	Unanswered []int // 1-based positions left empty
}

// Grader scores an answer set against its questions.
// Implementations may weight questions or return canned results (for tests).
type Grader interface {
	Grade(questions []questionbank.Question, answers []*examsession.Selection) Result
}

// ChoiceGrader counts exact matches with each question's answer index.
type ChoiceGrader struct{}

func (ChoiceGrader) Grade(questions []questionbank.Question, answers []*examsession.Selection) Result {
	res := Result{Total: len(questions), Wrong: []int{}, Unanswered: []int{}}
	for i, q := range questions {
		var sel *examsession.Selection
		if i < len(answers) {
			sel = answers[i]
		}
		switch {
		case sel == nil:
			res.Unanswered = append(res.Unanswered, i+1)
		case sel.Option == q.Answer:
			res.Correct++
		default:
			res.Wrong = append(res.Wrong, i+1)
		}
	}
	res.Score = Score(res.Correct, res.Total)
	return res
}

// Score is the percentage of correct answers, rounded to the nearest integer.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}
