package m4

import (
	"io"
	"strings"

	"github.com/pingcap/errors"
)

// nextToken returns the next token from the pushback buffer: a maximal
// identifier, or a single non-identifier byte. The first non-identifier byte
// read past an identifier is pushed back. Returns io.EOF at end of input; an
// identifier cut short by end of input is returned first, with io.EOF on the
// following call.
func (p *Processor) nextToken() (string, error) {
	ch, err := p.input.Getch()
	if err == io.EOF {
		return "", io.EOF
	}
	if err != nil {
		return "", errors.Trace(err)
	}
	if !isIdentStart(ch) {
		return string(ch), nil
	}
	var sb strings.Builder
	sb.WriteByte(ch)
	for {
		ch, err = p.input.Getch()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Trace(err)
		}
		if !isIdentPart(ch) {
			p.input.Ungetch(ch)
			break
		}
		sb.WriteByte(ch)
	}
	return sb.String(), nil
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isGraph reports whether ch is a printable graphic byte.
func isGraph(ch byte) bool {
	return ch > ' ' && ch < 0x7f
}

// isSpaceToken reports whether tok is a single whitespace byte.
func isSpaceToken(tok string) bool {
	return tok == " " || tok == "\t" || tok == "\n" || tok == "\r"
}
