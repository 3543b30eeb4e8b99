// Package pushback implements the LIFO input buffer that drives macro
// rescanning. Reads pop from the top of the stack; unreading pushes. When the
// stack is empty, reads fall through to an optional reader (standard input),
// so buffered text is always consumed before any fresh input.
package pushback

import (
	"bufio"
	"io"
)

// Buffer is a stack of bytes with lazy fallthrough to a reader.
type Buffer struct {
	a []byte
	r *bufio.Reader
}

// New returns a Buffer that falls through to r when empty. A nil r disables
// fallthrough: reads on an empty buffer return io.EOF.
func New(r io.Reader) *Buffer {
	b := &Buffer{}
	if r != nil {
		b.r = bufio.NewReader(r)
	}
	return b
}

// SetReader installs r as the fallthrough source for reads on an empty
// buffer. A nil r disables fallthrough.
func (b *Buffer) SetReader(r io.Reader) {
	if r == nil {
		b.r = nil
		return
	}
	b.r = bufio.NewReader(r)
}

// Len reports the number of buffered bytes (excluding the fallthrough reader).
func (b *Buffer) Len() int {
	return len(b.a)
}

// Getch pops the top byte, or reads one byte from the fallthrough reader when
// the buffer is empty. Returns io.EOF when both are exhausted.
func (b *Buffer) Getch() (byte, error) {
	if n := len(b.a); n > 0 {
		ch := b.a[n-1]
		b.a = b.a[:n-1]
		return ch, nil
	}
	if b.r == nil {
		return 0, io.EOF
	}
	return b.r.ReadByte()
}

// Ungetch pushes one byte; it will be returned by the next Getch.
func (b *Buffer) Ungetch(ch byte) {
	b.a = append(b.a, ch)
}

// UngetString pushes s in reverse so that subsequent Getch calls yield s
// left to right, ahead of anything already buffered.
func (b *Buffer) UngetString(s string) {
	for i := len(s) - 1; i >= 0; i-- {
		b.a = append(b.a, s[i])
	}
}
