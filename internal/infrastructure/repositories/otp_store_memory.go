package repositories

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/you/foodauth/domain"
)

// minSweep is the map size at which Save first prunes expired challenges
const minSweep = 64

// MemoryOTPStore implements domain.OTPStore in process memory. Expired
// challenges are evicted on Consume, and swept from Save once the map has
// doubled since the last sweep.
type MemoryOTPStore struct {
	mu         sync.Mutex
	challenges map[string]domain.OTPChallenge
	nextSweep  int
	now        func() time.Time
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{
		challenges: make(map[string]domain.OTPChallenge),
		nextSweep:  minSweep,
		now:        time.Now,
	}
}

// WithClock swaps the clock used for expiry checks
func (s *MemoryOTPStore) WithClock(now func() time.Time) *MemoryOTPStore {
	s.now = now
	return s
}

var _ domain.OTPStore = (*MemoryOTPStore)(nil)

func (s *MemoryOTPStore) Save(_ context.Context, c *domain.OTPChallenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.challenges) >= s.nextSweep {
		s.sweepLocked()
	}
	s.challenges[c.Phone] = *c
	return nil
}

func (s *MemoryOTPStore) sweepLocked() {
	now := s.now()
	for phone, c := range s.challenges {
		if c.Expired(now) {
			delete(s.challenges, phone)
		}
	}
	s.nextSweep = 2 * len(s.challenges)
	if s.nextSweep < minSweep {
		s.nextSweep = minSweep
	}
}

func (s *MemoryOTPStore) Consume(_ context.Context, phone, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.challenges[phone]
	if !ok {
		return false, nil
	}
	if c.Expired(s.now()) {
		delete(s.challenges, phone)
		return false, nil
	}
	if subtle.ConstantTimeCompare([]byte(c.Code), []byte(code)) != 1 {
		return false, nil
	}
	delete(s.challenges, phone)
	return true, nil
}

func (s *MemoryOTPStore) Delete(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.challenges[phone]; ok && c.Code == code {
		delete(s.challenges, phone)
	}
	return nil
}

// Len reports how many challenges are held
func (s *MemoryOTPStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.challenges)
}
