package masterdata

import (
	"sync"

	"github.com/atharvakonge/portfolio-admin/internal/models"
)

// State is the master data table shown to one admin. Searches may finish
// out of order; a result is kept only if its request was issued after the
// one currently displayed.
type State struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
	rows    []models.Stock
}

func NewState() *State {
	return &State{}
}

// Next issues the sequence number for a new search
func (s *State) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.issued++
	return s.issued
}

// Apply stores rows fetched for seq. Stale results are dropped and Apply
// reports false.
func (s *State) Apply(seq uint64, rows []models.Stock) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.applied {
		return false
	}
	s.applied = seq
	s.rows = append([]models.Stock(nil), rows...)
	return true
}

// Patch merges a saved edit into the displayed row instead of re-fetching.
// It reports whether the symbol was on screen.
func (s *State) Patch(symbol string, u models.StockUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.rows {
		if s.rows[i].Symbol == symbol {
			s.rows[i] = u.Apply(s.rows[i])
			return true
		}
	}
	return false
}

// Rows returns a copy of the displayed rows and the sequence they belong to
func (s *State) Rows() ([]models.Stock, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]models.Stock(nil), s.rows...), s.applied
}
