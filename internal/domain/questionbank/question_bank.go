package questionbank

import (
	"encoding/json"
	"math/rand"
	"os"

	"github.com/pkg/errors"

	"github.com/certprep/cbt/internal/id"
)

// Question is a single-choice CBT item. Answer indexes Options.
type Question struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
	CertName string   `json:"certName,omitempty"`
	Date     string   `json:"date,omitempty"` // exam sitting, YYYY-MM-DD
}

type QuestionBank struct {
	ID        string
	Subject   string
	Questions []Question
}

func New(subject string) *QuestionBank {
	return &QuestionBank{
		ID:        id.GenerateID(),
		Subject:   subject,
		Questions: []Question{},
	}
}

// AddQuestion appends a question, assigning an ID when it has none.
func (qb *QuestionBank) AddQuestion(q Question) error {
	if q.Prompt == "" {
		return errors.New("question prompt cannot be empty")
	}
	if len(q.Options) < 2 {
		return errors.New("question needs at least two options")
	}
	if q.Answer < 0 || q.Answer >= len(q.Options) {
		return errors.Errorf("answer index %d out of range for %d options", q.Answer, len(q.Options))
	}
	if q.ID == "" {
		q.ID = id.GenerateID()
	}
	qb.Questions = append(qb.Questions, q)
	return nil
}

// LoadFile reads a JSON array of questions into a new bank named subject.
func LoadFile(path, subject string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read question file")
	}
	var qs []Question
	if err := json.Unmarshal(data, &qs); err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	bank := New(subject)
	for i, q := range qs {
		if err := bank.AddQuestion(q); err != nil {
			return nil, errors.Wrapf(err, "question %d", i+1)
		}
	}
	return bank, nil
}

// Filter returns the questions for which keep reports true, in bank order.
func (qb *QuestionBank) Filter(keep func(Question) bool) []Question {
	var out []Question
	for _, q := range qb.Questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// Shuffle returns a new slice with questions in random order.
func Shuffle(questions []Question) []Question {
	shuffled := make([]Question, len(questions))
	copy(shuffled, questions)

	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}
