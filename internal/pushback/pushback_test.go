package pushback

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func drain(b *Buffer) string {
	var sb strings.Builder
	for {
		ch, err := b.Getch()
		if err != nil {
			break
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

func TestGetchEmpty(t *testing.T) {
	b := New(nil)
	if _, err := b.Getch(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestUngetchLIFO(t *testing.T) {
	b := New(nil)
	b.Ungetch('a')
	b.Ungetch('b')
	b.Ungetch('c')
	if diff := cmp.Diff("cba", drain(b)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestUngetStringOrder(t *testing.T) {
	b := New(nil)
	b.UngetString("later")
	b.UngetString("first ")
	if diff := cmp.Diff("first later", drain(b)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFallthroughReader(t *testing.T) {
	b := New(strings.NewReader("stdin"))
	b.UngetString("buffered ")
	if diff := cmp.Diff("buffered stdin", drain(b)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestUngetAfterFallthrough(t *testing.T) {
	b := New(strings.NewReader("xyz"))
	ch, err := b.Getch()
	if err != nil {
		t.Fatal(err)
	}
	b.Ungetch(ch)
	if diff := cmp.Diff("xyz", drain(b)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
