package orders

import (
	"context"
	"errors"
	"sync"

	"github.com/hanahehe/restore/models"
)

// Scanner is the vendor's scan input. It starts paused; each handled scan
// replaces the remembered order so a later ConfirmPickup applies to it.
type Scanner struct {
	mgr *Manager

	mu     sync.Mutex
	active bool
	last   string
}

func NewScanner(mgr *Manager) *Scanner {
	return &Scanner{mgr: mgr}
}

func (s *Scanner) Resume() {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()
}

// Pause detaches the scanner and forgets the last scanned order
func (s *Scanner) Pause() {
	s.mu.Lock()
	s.active = false
	s.last = ""
	s.mu.Unlock()
}

func (s *Scanner) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// LastScanned is the order id from the most recent decodable scan
func (s *Scanner) LastScanned() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scanner) Handle(ctx context.Context, raw string) (*Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil, models.ErrScannerPaused
	}
	p, err := decodeToken(raw)
	if err != nil {
		return nil, err
	}
	s.last = p.OrderID
	return s.mgr.fulfil(ctx, p.OrderID)
}

// ConfirmPickup marks the last scanned order Picked Up. Calling it for an
// order that is already collected is not an error.
func (s *Scanner) ConfirmPickup(ctx context.Context) (*Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return nil, models.ErrScannerPaused
	}
	if s.last == "" {
		return nil, models.ErrOrderNotFound
	}
	change, err := s.mgr.fulfil(ctx, s.last)
	if errors.Is(err, models.ErrAlreadyFulfilled) {
		return change, nil
	}
	return change, err
}
