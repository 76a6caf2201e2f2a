/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package transport

import "hdxscribe/pkg/spec"

// Marks is a bounded, ascending list of timestamps (ms) with an active cursor.
// It is not safe for concurrent use; State guards it with its own mutex.
type Marks struct {
	times  []int64
	cap    int
	active int
}

// NewMarks returns an empty registry holding at most capacity marks.
func NewMarks(capacity int) *Marks {
	if capacity < 0 {
		capacity = 0
	}
	return &Marks{
		times:  make([]int64, 0, capacity),
		cap:    capacity,
		active: spec.NoActiveMark,
	}
}

func (m *Marks) Len() int        { return len(m.times) }
func (m *Marks) Cap() int        { return m.cap }
func (m *Marks) Active() int     { return m.active }
func (m *Marks) Full() bool      { return len(m.times) >= m.cap }
func (m *Marks) HasActive() bool { return m.active != spec.NoActiveMark }

// At returns the mark at index i.
func (m *Marks) At(i int) int64 { return m.times[i] }

// Times returns a copy of the marks in ascending order.
func (m *Marks) Times() []int64 {
	out := make([]int64, len(m.times))
	copy(out, m.times)
	return out
}

// ActiveTime returns the active mark, or 0 when nothing is selected.
// Use HasActive to tell a mark at 0 apart from no mark.
func (m *Marks) ActiveTime() int64 {
	if !m.HasActive() {
		return 0
	}
	return m.times[m.active]
}

// Add inserts t and makes it active. It reports false and changes nothing
// when the registry is full or t equals the active mark.
func (m *Marks) Add(t int64) bool {
	if m.Full() {
		return false
	}
	if m.HasActive() && m.times[m.active] == t {
		return false
	}

	idx := len(m.times)
	for i, v := range m.times {
		if v >= t {
			idx = i
			break
		}
	}

	m.times = append(m.times, 0)
	copy(m.times[idx+1:], m.times[idx:])
	m.times[idx] = t
	m.active = idx
	return true
}

// Navigate moves the cursor by delta, clamped to the existing marks.
func (m *Marks) Navigate(delta int) bool {
	if len(m.times) == 0 {
		return false
	}
	next := m.active + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.times)-1 {
		next = len(m.times) - 1
	}
	if next == m.active {
		return false
	}
	m.active = next
	return true
}

// Delete removes the mark at index i. A cursor on another mark keeps pointing
// at that mark; a cursor on the deleted mark moves to the entry before it.
func (m *Marks) Delete(i int) bool {
	if i < 0 || i >= len(m.times) {
		return false
	}
	m.times = append(m.times[:i], m.times[i+1:]...)

	switch {
	case len(m.times) == 0:
		m.active = spec.NoActiveMark
	case m.active < i:
	case m.active > i:
		m.active--
	case i > 0:
		m.active = i - 1
	default:
		m.active = 0
	}
	return true
}
