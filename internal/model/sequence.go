package model

// IDSequence hands out unique genome identifiers. Not safe for concurrent
// use; reproduction is single-threaded.
type IDSequence struct {
	next int
}

func NewIDSequence(next int) *IDSequence {
	return &IDSequence{next: next}
}

func (s *IDSequence) Next() int {
	id := s.next
	s.next++
	return id
}
