// Package dicetest provides deterministic dice.Source doubles for tests.
package dicetest

import "sync"

// Fixed always returns min(V, n-1) from Intn and F from Float64.
type Fixed struct {
	V int
	F float64
}

// Intn returns min(f.V, n-1).
func (f Fixed) Intn(n int) int {
	if f.V >= n {
		return n - 1
	}
	return f.V
}

// Float64 returns f.F.
func (f Fixed) Float64() float64 { return f.F }

// Scripted replays queued values in order. When a queue is exhausted it falls
// back to the Fallback values.
//
// Intn results are clamped to [0, n).
type Scripted struct {
	mu        sync.Mutex
	ints      []int
	floats    []float64
	FallbackI int
	FallbackF float64
	IntCalls  int
	FltCalls  int
}

// NewScripted returns a Scripted source that replays ints and floats.
func NewScripted(ints []int, floats []float64) *Scripted {
	return &Scripted{ints: ints, floats: floats}
}

// Intn pops the next queued int, clamped to [0, n).
func (s *Scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.IntCalls++
	v := s.FallbackI
	if len(s.ints) > 0 {
		v = s.ints[0]
		s.ints = s.ints[1:]
	}
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Float64 pops the next queued float.
func (s *Scripted) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FltCalls++
	if len(s.floats) > 0 {
		v := s.floats[0]
		s.floats = s.floats[1:]
		return v
	}
	return s.FallbackF
}
