package m4

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pingcap/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// esyscmd runs cmd through the platform shell, strips NUL bytes from its
// standard output and pushes the result back for rescanning. A non-zero exit
// is fatal.
func (p *Processor) esyscmd(cmd string) error {
	shell, flag := "/bin/sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/c"
	}
	p.Trace.Debug("esyscmd", zap.String("cmd", cmd))
	out, err := exec.Command(shell, flag, cmd).Output()
	if err != nil {
		return errors.Annotate(err, "esyscmd: command failed")
	}
	out = bytes.ReplaceAll(out, []byte{0}, nil)
	p.input.UngetString(string(out))
	return nil
}

// maketemp creates a unique file from a template whose trailing run of X
// characters is replaced, and pushes the resulting name back.
func (p *Processor) maketemp(template string) error {
	i := len(template)
	for i > 0 && template[i-1] == 'X' {
		i--
	}
	if i == len(template) {
		return errors.New("maketemp: template must end in X")
	}
	dir, base := filepath.Split(template[:i])
	fh, err := afero.TempFile(p.Fs, dir, base+"*")
	if err != nil {
		return errors.Annotate(err, "maketemp: failed")
	}
	if err := fh.Close(); err != nil {
		return errors.Annotate(err, "maketemp: failed to close temp file")
	}
	p.Trace.Debug("maketemp", zap.String("name", fh.Name()))
	p.input.UngetString(fh.Name())
	return nil
}
