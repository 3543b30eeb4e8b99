// Package divert implements the numbered output buffers. Diversions 0 to 9
// are growable byte buffers; diversion -1 is a discard sink. Exactly one
// diversion is current and receives non-argument output.
package divert

import (
	"bytes"
	"io"

	"github.com/pingcap/errors"
)

// Sink is the diversion number whose writes are dropped.
const Sink = -1

// Set holds the ten diversion buffers and the current selection.
type Set struct {
	bufs [10]bytes.Buffer
	cur  int
}

// New returns a Set with diversion 0 current.
func New() *Set {
	return &Set{}
}

// Current returns the current diversion number, -1 for the sink.
func (s *Set) Current() int {
	return s.cur
}

// Divert selects diversion n. n must be 0 to 9 or Sink.
func (s *Set) Divert(n int) error {
	if n != Sink && (n < 0 || n > 9) {
		return errors.Errorf("divert: diversion number must be 0 to 9 or -1, got %d", n)
	}
	s.cur = n
	return nil
}

// Writer returns the current output target. Writes to the sink are dropped.
func (s *Set) Writer() io.Writer {
	if s.cur == Sink {
		return io.Discard
	}
	return &s.bufs[s.cur]
}

// Flush writes diversion n to w and clears it.
func (s *Set) Flush(w io.Writer, n int) error {
	b := &s.bufs[n]
	if b.Len() == 0 {
		return nil
	}
	if _, err := w.Write(b.Bytes()); err != nil {
		return errors.Trace(err)
	}
	b.Reset()
	return nil
}

// FlushAll writes diversions 0 to 9 to w in order, clearing each.
func (s *Set) FlushAll(w io.Writer) error {
	for n := 0; n < 10; n++ {
		if err := s.Flush(w, n); err != nil {
			return err
		}
	}
	return nil
}

// Append moves diversion k's contents onto the current diversion and clears
// k. Appending a diversion to itself is a no-op; appending while the sink is
// current still drains k.
func (s *Set) Append(k int) {
	if k == s.cur {
		return
	}
	src := &s.bufs[k]
	if s.cur != Sink {
		s.bufs[s.cur].Write(src.Bytes())
	}
	src.Reset()
}

// Len reports the number of bytes buffered in diversion n.
func (s *Set) Len(n int) int {
	return s.bufs[n].Len()
}
