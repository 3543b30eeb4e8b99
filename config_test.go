package m4

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "m4.toml", []byte(`
left-quote = "["
right-quote = "]"

[defines]
greet = "hello $1"
who = "config"
`), 0644))

	cfg, err := LoadConfig(fs, "m4.toml")
	require.NoError(t, err)
	require.Equal(t, "[", cfg.LeftQuote)
	require.Equal(t, "]", cfg.RightQuote)
	require.Equal(t, "hello $1", cfg.Defines["greet"])
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(afero.NewMemMapFs(), "nope.toml")
	require.Error(t, err)
}

func TestLoadConfigBadTOML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "m4.toml", []byte("left-quote = [unterminated"), 0644))
	_, err := LoadConfig(fs, "m4.toml")
	require.Error(t, err)
}

func TestApplyConfig(t *testing.T) {
	p := New()
	p.Fs = afero.NewMemMapFs()
	var out strings.Builder
	p.Stdout = &out
	require.NoError(t, p.ApplyConfig(&Config{
		LeftQuote:  "[",
		RightQuote: "]",
		Defines:    map[string]string{"who": "config"},
	}))
	p.SetInput(strings.NewReader("[who] is who"))
	require.NoError(t, p.Run())
	require.Equal(t, "who is config", out.String())
}

func TestApplyConfigHalfQuotes(t *testing.T) {
	p := New()
	err := p.ApplyConfig(&Config{LeftQuote: "["})
	require.Error(t, err)
}

func TestApplyConfigBadQuotes(t *testing.T) {
	p := New()
	err := p.ApplyConfig(&Config{LeftQuote: "(", RightQuote: ")"})
	require.Error(t, err)
}

func TestSplitDefine(t *testing.T) {
	name, body := SplitDefine("greet=hello")
	require.Equal(t, "greet", name)
	require.Equal(t, "hello", body)

	name, body = SplitDefine("flag")
	require.Equal(t, "flag", name)
	require.Equal(t, "", body)

	name, body = SplitDefine("eq=a=b")
	require.Equal(t, "eq", name)
	require.Equal(t, "a=b", body)
}
