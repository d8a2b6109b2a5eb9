package emulated

import (
	"sync"

	"github.com/custodia-labs/firmproto/internal/core/domain"
)

// slots counts slot invocations and hands out injected statuses.
type slots struct {
	mu     sync.Mutex
	calls  map[string]int
	faults map[string][]domain.Status
}

func newSlots() *slots {
	return &slots{
		calls:  make(map[string]int),
		faults: make(map[string][]domain.Status),
	}
}

// enter records a call of slot and returns an injected status, if any.
func (s *slots) enter(slot string) (domain.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[slot]++
	q := s.faults[slot]
	if len(q) == 0 {
		return domain.Success, false
	}
	s.faults[slot] = q[1:]
	return q[0], true
}

// Calls returns how many times slot was invoked.
func (s *slots) Calls(slot string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[slot]
}

// TotalCalls returns the number of slot invocations of every kind.
func (s *slots) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// FailNext makes the next call of slot return status without doing any work.
// Several injections for one slot are used in order.
func (s *slots) FailNext(slot string, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[slot] = append(s.faults[slot], status)
}
