package examsession

// Unanswered summarises the empty slots of an answer set.
type Unanswered struct {
	Count     int
	Positions []int // 1-based, ascending
}

// FindUnanswered scans answers for nil slots.
func FindUnanswered(answers []*Selection) Unanswered {
	u := Unanswered{Positions: []int{}}
	for i, a := range answers {
		if a == nil {
			u.Count++
			u.Positions = append(u.Positions, i+1)
		}
	}
	return u
}
