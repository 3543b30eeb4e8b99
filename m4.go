/*
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package m4 implements an m4-style macro processor: a single-pass text
// transformer that reads tokens, substitutes macro definitions with
// positional-parameter expansion, and feeds every substitution result back
// into the input for rescanning.
package m4

import (
	"io"
	"os"
	"strconv"

	"github.com/pingcap/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/loganpkg/m4/internal/divert"
	"github.com/loganpkg/m4/internal/pushback"
	"github.com/loganpkg/m4/internal/symtab"
)

// Processor holds all state of one macro-processing run. It is strictly
// single-threaded; create one, configure the exported fields, feed it input
// and call Run once.
type Processor struct {
	// Fs is used by include, command-line file loading and maketemp.
	Fs afero.Fs
	// Stdout receives diversion 0 as it becomes available and the remaining
	// diversions at termination.
	Stdout io.Writer
	// Stderr is the diagnostic channel: errprint, dumpdef, htdist.
	Stderr io.Writer
	// EnableShell seeds the esyscmd and maketemp builtins.
	EnableShell bool
	// Trace logs expansion events at debug level.
	Trace *zap.Logger

	input *pushback.Buffer
	syms  *symtab.Table
	divs  *divert.Set
	stack []*frame

	quoteOn    bool
	quoteDepth int
	leftQuote  byte
	rightQuote byte
}

// New returns a Processor with builtins seeded, backtick/apostrophe quote
// delimiters, and no input. Call SetInput or LoadFiles before Run.
func New() *Processor {
	p := &Processor{
		Fs:         afero.NewOsFs(),
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Trace:      zap.NewNop(),
		input:      pushback.New(nil),
		syms:       symtab.New(),
		divs:       divert.New(),
		leftQuote:  '`',
		rightQuote: '\'',
	}
	for name, tag := range builtins {
		p.syms.Upsert(name, "", int(tag))
	}
	return p
}

// SetInput enables reading from r once all buffered text is consumed.
func (p *Processor) SetInput(r io.Reader) {
	p.input.SetReader(r)
}

// LoadFiles queues the named files so they are read in the listed order,
// ahead of anything already buffered. Standard-input reading stays disabled
// unless SetInput is called.
func (p *Processor) LoadFiles(paths ...string) error {
	for i := len(paths) - 1; i >= 0; i-- {
		data, err := afero.ReadFile(p.Fs, paths[i])
		if err != nil {
			return errors.Annotatef(err, "cannot load %s", paths[i])
		}
		p.input.UngetString(string(data))
	}
	return nil
}

// Define inserts or replaces a user macro. The body may contain $1..$9.
func (p *Processor) Define(name, body string) {
	p.syms.Upsert(name, body, 0)
}

// Undefine removes a macro. Removing a missing name is not an error.
func (p *Processor) Undefine(name string) {
	p.syms.Delete(name)
}

// ChangeQuote sets the quote delimiters. Both must be graphic bytes,
// distinct from each other and from parentheses and comma.
func (p *Processor) ChangeQuote(left, right byte) error {
	if left == right || !isGraph(left) || !isGraph(right) ||
		isCallPunct(left) || isCallPunct(right) {
		return errors.New("changequote: quotes must be distinct single graphic characters other than parentheses and comma")
	}
	p.leftQuote = left
	p.rightQuote = right
	p.Trace.Debug("changequote",
		zap.String("left", string(left)), zap.String("right", string(right)))
	return nil
}

// Run processes the input to exhaustion. On clean end of input the remaining
// diversions are flushed to Stdout in numeric order. Input ending inside a
// macro call or inside quotes is fatal, as is any builtin misuse.
func (p *Processor) Run() error {
	if p.Trace == nil {
		p.Trace = zap.NewNop()
	}
	if p.EnableShell {
		p.seedShellBuiltins()
	}
	if err := p.loop(); err != nil {
		return err
	}
	if len(p.stack) != 0 {
		return errors.New("input finished without unwinding the stack")
	}
	if p.quoteOn {
		return errors.New("input finished without exiting quotes")
	}
	return p.divs.FlushAll(p.Stdout)
}

// loop reads one token per iteration until end of input. io.EOF raised by
// the helpers that read ahead (argument whitespace eating, dnl) ends the loop
// the same way; end of input during macro lookahead does not, it selects the
// no-argument form. The stack and quote checks in Run decide whether the end
// was clean.
func (p *Processor) loop() error {
	for {
		// Write diversion 0 opportunistically, for interactive use.
		if err := p.divs.Flush(p.Stdout, 0); err != nil {
			return err
		}
		tok, err := p.nextToken()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := p.process(tok); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// output is the current output target: the active argument buffer of the
// innermost call while collecting, otherwise the current diversion.
func (p *Processor) output() io.Writer {
	if n := len(p.stack); n > 0 {
		f := p.stack[n-1]
		return f.args[f.actArg]
	}
	return p.divs.Writer()
}

func (p *Processor) emit(s string) error {
	_, err := io.WriteString(p.output(), s)
	return errors.Trace(err)
}

// process classifies one token. The clause order matters: quote delimiters
// first, then quoted pass-through, then macro recognition, then the call
// syntax of the innermost frame, then plain pass-through.
func (p *Processor) process(tok string) error {
	top := p.top()
	var entry *symtab.Entry
	if isIdentStart(tok[0]) {
		entry = p.syms.Lookup(tok)
	}
	switch {
	case tok == string(p.leftQuote):
		if !p.quoteOn {
			p.quoteOn = true
		}
		if p.quoteDepth > 0 {
			if err := p.emit(tok); err != nil {
				return err
			}
		}
		p.quoteDepth++

	case tok == string(p.rightQuote):
		if p.quoteDepth > 1 {
			if err := p.emit(tok); err != nil {
				return err
			}
		}
		if p.quoteDepth > 0 {
			p.quoteDepth--
			if p.quoteDepth == 0 {
				p.quoteOn = false
			}
		}

	case p.quoteOn:
		return p.emit(tok)

	case entry != nil:
		return p.macroHit(entry)

	case top != nil && top.bracketDepth == 1 && tok == ")":
		return p.closeCall()

	case top != nil && top.bracketDepth == 1 && tok == ",":
		if top.actArg == 9 {
			return errors.New("macro call has too many arguments")
		}
		top.actArg++
		top.args[top.actArg] = newArgBuffer()
		return p.eatSpace()

	case top != nil && top.bracketDepth > 1 && tok == ")":
		if err := p.emit(tok); err != nil {
			return err
		}
		top.bracketDepth--

	case top != nil && tok == "(":
		if err := p.emit(tok); err != nil {
			return err
		}
		top.bracketDepth++

	default:
		return p.emit(tok)
	}
	return nil
}

func (p *Processor) top() *frame {
	if n := len(p.stack); n > 0 {
		return p.stack[n-1]
	}
	return nil
}

// macroHit handles a token that names a macro: one token of lookahead
// decides between a call with arguments and the no-argument form.
func (p *Processor) macroHit(e *symtab.Entry) error {
	next, err := p.nextToken()
	if err != nil && err != io.EOF {
		return err
	}
	if next == "(" {
		p.stack = append(p.stack, newFrame(e))
		p.Trace.Debug("open call", zap.String("name", e.Name))
		return p.eatSpace()
	}
	if next != "" {
		p.input.UngetString(next)
	}
	if e.Builtin() {
		return p.builtinNoArgs(e)
	}
	p.input.UngetString(stripDollarArgs(e.Body))
	p.Trace.Debug("expand", zap.String("name", e.Name))
	return nil
}

// closeCall finishes the innermost call: builtins dispatch on their tag,
// user definitions substitute $1..$9 and rescan.
func (p *Processor) closeCall() error {
	f := p.top()
	f.bracketDepth--
	if f.tag != 0 {
		if err := p.builtinWithArgs(f); err != nil {
			return err
		}
	} else {
		p.input.UngetString(substituteArgs(f))
	}
	p.Trace.Debug("close call",
		zap.String("name", f.name), zap.Int("args", f.actArg))
	p.stack = p.stack[:len(p.stack)-1]
	return nil
}

// eatSpace discards whitespace tokens ahead of an argument.
func (p *Processor) eatSpace() error {
	for {
		tok, err := p.nextToken()
		if err != nil {
			return err
		}
		if !isSpaceToken(tok) {
			p.input.UngetString(tok)
			return nil
		}
	}
}

// dnl discards input up to and including the next newline.
func (p *Processor) dnl() error {
	for {
		tok, err := p.nextToken()
		if err != nil {
			return err
		}
		if tok == "\n" {
			return nil
		}
	}
}

func (p *Processor) divnum() string {
	if n := p.divs.Current(); n != divert.Sink {
		return strconv.Itoa(n)
	}
	return "-1"
}

func isCallPunct(ch byte) bool {
	return ch == '(' || ch == ')' || ch == ','
}
