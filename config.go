package m4

import (
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"github.com/spf13/afero"
)

// Config is the optional TOML startup file: quote delimiters and predefined
// macros, applied before any input is processed.
//
//	left-quote = "["
//	right-quote = "]"
//
//	[defines]
//	author = "lrm"
//	greet = "hello $1"
type Config struct {
	LeftQuote  string            `toml:"left-quote"`
	RightQuote string            `toml:"right-quote"`
	Defines    map[string]string `toml:"defines"`
}

// LoadConfig reads and parses a TOML startup file.
func LoadConfig(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Annotatef(err, "cannot load config %s", path)
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Annotatef(err, "cannot parse config %s", path)
	}
	return &cfg, nil
}

// ApplyConfig installs the quote delimiters and predefined macros. Quote
// delimiters must be set together and obey the changequote rules. Defines
// are applied in name order.
func (p *Processor) ApplyConfig(cfg *Config) error {
	switch {
	case cfg.LeftQuote == "" && cfg.RightQuote == "":
	case len(cfg.LeftQuote) == 1 && len(cfg.RightQuote) == 1:
		if err := p.ChangeQuote(cfg.LeftQuote[0], cfg.RightQuote[0]); err != nil {
			return err
		}
	default:
		return errors.New("config: left-quote and right-quote must both be single characters")
	}
	names := make([]string, 0, len(cfg.Defines))
	for name := range cfg.Defines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.Define(name, cfg.Defines[name])
	}
	return nil
}

// SplitDefine splits a command-line predefine of the form name[=body]. A
// bare name defines an empty body.
func SplitDefine(s string) (name, body string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '=' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}
