package divert

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCurrentStartsAtZero(t *testing.T) {
	s := New()
	if s.Current() != 0 {
		t.Fatalf("current = %d, want 0", s.Current())
	}
}

func TestDivertRange(t *testing.T) {
	s := New()
	for n := 0; n <= 9; n++ {
		if err := s.Divert(n); err != nil {
			t.Fatalf("Divert(%d): %v", n, err)
		}
	}
	if err := s.Divert(Sink); err != nil {
		t.Fatalf("Divert(-1): %v", err)
	}
	if err := s.Divert(10); err == nil {
		t.Fatal("Divert(10) should fail")
	}
	if err := s.Divert(-2); err == nil {
		t.Fatal("Divert(-2) should fail")
	}
}

func TestSinkDiscards(t *testing.T) {
	s := New()
	if err := s.Divert(Sink); err != nil {
		t.Fatal(err)
	}
	io.WriteString(s.Writer(), "dropped")
	s.Divert(0)
	var sb strings.Builder
	if err := s.FlushAll(&sb); err != nil {
		t.Fatal(err)
	}
	if sb.Len() != 0 {
		t.Fatalf("sink leaked %q", sb.String())
	}
}

func TestFlushClears(t *testing.T) {
	s := New()
	io.WriteString(s.Writer(), "hello")
	var sb strings.Builder
	if err := s.Flush(&sb, 0); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("hello", sb.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if s.Len(0) != 0 {
		t.Fatalf("diversion 0 not cleared, %d bytes left", s.Len(0))
	}
}

func TestFlushAllOrder(t *testing.T) {
	s := New()
	s.Divert(2)
	io.WriteString(s.Writer(), "two ")
	s.Divert(1)
	io.WriteString(s.Writer(), "one ")
	s.Divert(9)
	io.WriteString(s.Writer(), "nine")
	var sb strings.Builder
	if err := s.FlushAll(&sb); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("one two nine", sb.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendMovesAndClears(t *testing.T) {
	s := New()
	s.Divert(2)
	io.WriteString(s.Writer(), "payload")
	s.Divert(3)
	io.WriteString(s.Writer(), "head ")
	s.Append(2)
	if s.Len(2) != 0 {
		t.Fatal("source diversion not cleared")
	}
	var sb strings.Builder
	s.Divert(0)
	if err := s.FlushAll(&sb); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("head payload", sb.String()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendIntoSinkDrainsSource(t *testing.T) {
	s := New()
	s.Divert(2)
	io.WriteString(s.Writer(), "gone")
	s.Divert(Sink)
	s.Append(2)
	if s.Len(2) != 0 {
		t.Fatal("source not drained when sink is current")
	}
}

func TestAppendToSelfIsNoop(t *testing.T) {
	s := New()
	s.Divert(4)
	io.WriteString(s.Writer(), "keep")
	s.Append(4)
	if s.Len(4) != 4 {
		t.Fatalf("self append damaged the buffer, len %d", s.Len(4))
	}
}
