package view

// TokenSlot tracks the single in-flight canvas update of a document.
//
// Each update is identified by a generation drawn from a monotonically
// increasing counter. Issuing a new generation orphans the previous one;
// a completion clears the slot only if its generation is still current.
// The zero value is an empty slot.
type TokenSlot struct {
	counter uint64
	current uint64
}

// Issue starts a new generation, making it current. It returns the new
// generation and the one it superseded (zero if the slot was empty).
func (s *TokenSlot) Issue() (gen, superseded uint64) {
	superseded = s.current
	s.counter++
	s.current = s.counter
	return s.current, superseded
}

// Current returns the in-flight generation, or zero when the slot is empty.
func (s *TokenSlot) Current() uint64 { return s.current }

// Empty reports whether no update is in flight.
func (s *TokenSlot) Empty() bool { return s.current == 0 }

// IsCurrent reports whether gen is the in-flight generation.
func (s *TokenSlot) IsCurrent(gen uint64) bool {
	return gen != 0 && s.current == gen
}

// ClearIf empties the slot when gen is still current and reports whether it
// did. Stale generations leave the slot untouched.
func (s *TokenSlot) ClearIf(gen uint64) bool {
	if !s.IsCurrent(gen) {
		return false
	}
	s.current = 0
	return true
}
