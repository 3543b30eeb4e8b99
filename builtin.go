package m4

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pingcap/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/loganpkg/m4/internal/divert"
	"github.com/loganpkg/m4/internal/symtab"
)

// builtinTag identifies a builtin in its symbol-table entry, so dispatch in
// the expansion loop is a switch rather than a string comparison.
type builtinTag int

const (
	notBuiltin builtinTag = iota
	biDefine
	biUndefine
	biChangequote
	biDivert
	biDivnum
	biUndivert
	biDumpdef
	biErrprint
	biIfdef
	biIfelse
	biInclude
	biLen
	biIndex
	biSubstr
	biTranslit
	biDnl
	biIncr
	biAdd
	biMult
	biSub
	biDiv
	biMod
	biDirsep
	biHtdist
	biEsyscmd
	biMaketemp
)

// builtins are seeded at startup. esyscmd and maketemp are excluded; they
// are added only when shell support is enabled.
var builtins = map[string]builtinTag{
	"define":      biDefine,
	"undefine":    biUndefine,
	"changequote": biChangequote,
	"divert":      biDivert,
	"divnum":      biDivnum,
	"undivert":    biUndivert,
	"dumpdef":     biDumpdef,
	"errprint":    biErrprint,
	"ifdef":       biIfdef,
	"ifelse":      biIfelse,
	"include":     biInclude,
	"len":         biLen,
	"index":       biIndex,
	"substr":      biSubstr,
	"translit":    biTranslit,
	"dnl":         biDnl,
	"incr":        biIncr,
	"add":         biAdd,
	"mult":        biMult,
	"sub":         biSub,
	"div":         biDiv,
	"mod":         biMod,
	"dirsep":      biDirsep,
	"htdist":      biHtdist,
}

func (p *Processor) seedShellBuiltins() {
	if p.syms.Lookup("esyscmd") == nil {
		p.syms.Upsert("esyscmd", "", int(biEsyscmd))
	}
	if p.syms.Lookup("maketemp") == nil {
		p.syms.Upsert("maketemp", "", int(biMaketemp))
	}
}

// lookupMacro returns the entry for name if it is a well-formed macro name
// with a definition, else nil.
func (p *Processor) lookupMacro(name string) *symtab.Entry {
	if name == "" || !isIdentStart(name[0]) {
		return nil
	}
	return p.syms.Lookup(name)
}

// builtinNoArgs handles a builtin invoked without a following parenthesis.
// Builtins whose semantics require arguments pass through as literal text.
func (p *Processor) builtinNoArgs(e *symtab.Entry) error {
	switch builtinTag(e.Tag) {
	case biDnl:
		return p.dnl()
	case biDivnum:
		p.input.UngetString(p.divnum())
	case biUndivert:
		if p.divs.Current() != 0 {
			return errors.New("undivert: can only call from diversion 0 when called without arguments")
		}
		return p.divs.FlushAll(p.Stdout)
	case biDivert:
		p.Trace.Debug("divert", zap.Int("diversion", 0))
		return p.divs.Divert(0)
	case biHtdist:
		p.syms.Histogram(p.Stderr)
	case biDirsep:
		p.input.UngetString(string(os.PathSeparator))
	default:
		return p.emit(e.Name)
	}
	return nil
}

// builtinWithArgs dispatches a builtin once its arguments are collected. The
// frame is still on the stack; results that need rescanning go back into the
// pushback buffer, never straight to the output.
func (p *Processor) builtinWithArgs(f *frame) error {
	switch builtinTag(f.tag) {
	case biDefine:
		p.syms.Upsert(f.arg(1), f.arg(2), 0)
		p.Trace.Debug("define", zap.String("name", f.arg(1)))

	case biUndefine:
		p.syms.Delete(f.arg(1))
		p.Trace.Debug("undefine", zap.String("name", f.arg(1)))

	case biChangequote:
		l, r := f.arg(1), f.arg(2)
		if len(l) != 1 || len(r) != 1 {
			return errors.New("changequote: quotes must be distinct single graphic characters other than parentheses and comma")
		}
		return p.ChangeQuote(l[0], r[0])

	case biDivert:
		n, err := parseDiversion(f.arg(1))
		if err != nil {
			return err
		}
		p.Trace.Debug("divert", zap.Int("diversion", n))
		return p.divs.Divert(n)

	case biDumpdef:
		for k := 1; k <= 9; k++ {
			name := f.arg(k)
			if e := p.lookupMacro(name); e != nil {
				body := e.Body
				if e.Builtin() {
					body = "built-in"
				}
				fmt.Fprintf(p.Stderr, "%s: %s\n", name, body)
			} else if name != "" {
				fmt.Fprintf(p.Stderr, "%s: undefined\n", name)
			}
		}

	case biErrprint:
		for k := 1; k <= 9; k++ {
			if a := f.arg(k); a != "" {
				fmt.Fprintf(p.Stderr, "%s\n", a)
			}
		}

	case biIfdef:
		if p.lookupMacro(f.arg(1)) != nil {
			p.input.UngetString(f.arg(2))
		} else {
			p.input.UngetString(f.arg(3))
		}

	case biIfelse:
		if f.arg(1) == f.arg(2) {
			p.input.UngetString(f.arg(3))
		} else {
			p.input.UngetString(f.arg(4))
		}

	case biInclude:
		data, err := afero.ReadFile(p.Fs, f.arg(1))
		if err != nil {
			return errors.Annotatef(err, "include: failed to include file %s", f.arg(1))
		}
		p.input.UngetString(string(data))

	case biLen:
		p.input.UngetString(strconv.Itoa(len(f.arg(1))))

	case biIndex:
		p.input.UngetString(strconv.Itoa(strings.Index(f.arg(1), f.arg(2))))

	case biSubstr:
		return p.substr(f)

	case biTranslit:
		p.input.UngetString(translit(f.arg(1), f.arg(2), f.arg(3)))

	case biDnl:
		return p.dnl()

	case biDivnum:
		p.input.UngetString(p.divnum())

	case biUndivert:
		return p.undivertArgs(f)

	case biIncr:
		return p.incr(f.arg(1))

	case biAdd, biMult, biSub, biDiv, biMod:
		return p.arith(f)

	case biDirsep:
		p.input.UngetString(string(os.PathSeparator))

	case biHtdist:
		p.syms.Histogram(p.Stderr)

	case biEsyscmd:
		return p.esyscmd(f.arg(1))

	case biMaketemp:
		return p.maketemp(f.arg(1))
	}
	return nil
}

func parseDiversion(s string) (int, error) {
	if len(s) == 1 && isDigit(s[0]) {
		return int(s[0] - '0'), nil
	}
	if s == "-1" {
		return divert.Sink, nil
	}
	return 0, errors.New("divert: diversion number must be 0 to 9 or -1")
}

// undivertArgs flushes or moves the named diversions. From diversion 0 each
// named buffer goes to standard output; from any other diversion it is
// appended to the current one. Arguments that are not a single digit 1 to 9
// are ignored, as is the current diversion itself.
func (p *Processor) undivertArgs(f *frame) error {
	cur := p.divs.Current()
	for k := 1; k <= 9; k++ {
		a := f.arg(k)
		if len(a) != 1 || !isDigit(a[0]) || a[0] == '0' {
			continue
		}
		n := int(a[0] - '0')
		if cur == 0 {
			if err := p.divs.Flush(p.Stdout, n); err != nil {
				return err
			}
		} else if n != cur {
			p.divs.Append(n)
		}
	}
	return nil
}

func (p *Processor) substr(f *frame) error {
	s := f.arg(1)
	if s == "" {
		return nil
	}
	w, err := parseNum(f.arg(2))
	if err != nil {
		return errors.New("substr: invalid index or length")
	}
	n, err := parseNum(f.arg(3))
	if err != nil {
		return errors.New("substr: invalid index or length")
	}
	if w >= uint64(len(s)) {
		return nil
	}
	start := int(w)
	end := len(s)
	if n < uint64(end-start) {
		end = start + int(n)
	}
	p.input.UngetString(s[start:end])
	return nil
}

// translit maps bytes of s per from/to: position i of from maps to position
// i of to while both remain (first occurrence wins); from bytes beyond the
// length of to are deleted; everything else passes through.
func translit(s, from, to string) string {
	var mp [256]int
	for i := range mp {
		mp[i] = -1
	}
	i := 0
	for ; i < len(from) && i < len(to); i++ {
		if mp[from[i]] == -1 {
			mp[from[i]] = int(to[i])
		}
	}
	for ; i < len(from); i++ {
		mp[from[i]] = 0
	}
	var sb strings.Builder
	for j := 0; j < len(s); j++ {
		switch x := mp[s[j]]; {
		case x == -1:
			sb.WriteByte(s[j])
		case x != 0:
			sb.WriteByte(byte(x))
		}
	}
	return sb.String()
}
