package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zinhocoder/Aproovi-Back-end/internal/model"
)

// stepClock advances one millisecond per Now call so time-derived ids and
// ordering are deterministic in tests.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)}
}

func (s *stepClock) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(time.Millisecond)
	return s.now
}

// pngBytes is a payload that mimetype detects as image/png.
func pngBytes() []byte {
	sig := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	return append(sig, []byte("test image payload")...)
}

func agencyAccount(name string) *model.Account {
	return &model.Account{
		ID:   uuid.NewString(),
		Name: name,
		Role: model.RoleAgency,
	}
}
