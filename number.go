package m4

import (
	"math"
	"strconv"

	"github.com/pingcap/errors"
)

// parseNum parses a non-negative decimal integer. Overflow is detected
// before it occurs.
func parseNum(s string) (uint64, error) {
	if s == "" {
		return 0, errors.New("empty number")
	}
	var n uint64
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if !isDigit(ch) {
			return 0, errors.Errorf("not a number: %q", s)
		}
		d := uint64(ch - '0')
		if n > (math.MaxUint64-d)/10 {
			return 0, errors.Errorf("number too large: %q", s)
		}
		n = n*10 + d
	}
	return n, nil
}

func (p *Processor) incr(s string) error {
	n, err := parseNum(s)
	if err != nil {
		return errors.New("incr: invalid number")
	}
	if n == math.MaxUint64 {
		return errors.New("incr: integer overflow")
	}
	p.input.UngetString(strconv.FormatUint(n+1, 10))
	return nil
}

// arith folds the collected arguments of add, mult, sub, div or mod. Empty
// arguments are skipped. sub, div and mod require argument 1; add and mult
// start from their identity element.
func (p *Processor) arith(f *frame) error {
	var w uint64
	k := 1
	switch builtinTag(f.tag) {
	case biAdd:
		w = 0
	case biMult:
		w = 1
	default:
		if f.arg(1) == "" {
			return errors.Errorf("%s: argument 1 must be used", f.name)
		}
		var err error
		if w, err = parseNum(f.arg(1)); err != nil {
			return errors.Errorf("%s: invalid number", f.name)
		}
		k = 2
	}
	for ; k <= 9; k++ {
		a := f.arg(k)
		if a == "" {
			continue
		}
		n, err := parseNum(a)
		if err != nil {
			return errors.Errorf("%s: invalid number", f.name)
		}
		switch builtinTag(f.tag) {
		case biAdd:
			if n > math.MaxUint64-w {
				return errors.Errorf("%s: integer overflow", f.name)
			}
			w += n
		case biMult:
			if w != 0 && n > math.MaxUint64/w {
				return errors.Errorf("%s: integer overflow", f.name)
			}
			w *= n
		case biSub:
			if n > w {
				return errors.Errorf("%s: integer underflow", f.name)
			}
			w -= n
		case biDiv:
			if n == 0 {
				return errors.Errorf("%s: divide by zero", f.name)
			}
			w /= n
		case biMod:
			if n == 0 {
				return errors.Errorf("%s: modulo by zero", f.name)
			}
			w %= n
		}
	}
	p.input.UngetString(strconv.FormatUint(w, 10))
	return nil
}
