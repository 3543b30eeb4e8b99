package m4

import (
	"bytes"
	"strings"

	"github.com/loganpkg/m4/internal/symtab"
)

// frame is one active macro invocation on the call stack. Argument buffers
// 1..9 are allocated as the commas arrive; index 0 is unused. bracketDepth
// counts unquoted parentheses; the frame closes when it drops back to zero.
type frame struct {
	name         string
	body         string
	tag          int
	bracketDepth int
	actArg       int
	args         [10]*bytes.Buffer
}

func newFrame(e *symtab.Entry) *frame {
	f := &frame{
		name:         e.Name,
		body:         e.Body,
		tag:          e.Tag,
		bracketDepth: 1,
		actArg:       1,
	}
	f.args[1] = newArgBuffer()
	return f
}

func newArgBuffer() *bytes.Buffer {
	return &bytes.Buffer{}
}

// arg returns collected argument n; absent arguments are empty strings.
func (f *frame) arg(n int) string {
	if f.args[n] == nil {
		return ""
	}
	return f.args[n].String()
}

// substituteArgs expands $1..$9 in the frame's definition from the collected
// arguments. Any other use of '$', including $0, passes through.
func substituteArgs(f *frame) string {
	var sb strings.Builder
	body := f.body
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch == '$' && i+1 < len(body) && isDigit(body[i+1]) && body[i+1] != '0' {
			sb.WriteString(f.arg(int(body[i+1] - '0')))
			i++
			continue
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}

// stripDollarArgs returns body with every $1..$9 placeholder removed, for
// expanding a user macro invoked without arguments.
func stripDollarArgs(body string) string {
	var sb strings.Builder
	for i := 0; i < len(body); i++ {
		ch := body[i]
		if ch == '$' && i+1 < len(body) && isDigit(body[i+1]) && body[i+1] != '0' {
			i++
			continue
		}
		sb.WriteByte(ch)
	}
	return sb.String()
}
