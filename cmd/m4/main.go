// Command m4 is an m4-style macro processor. Files named on the command
// line are processed in order; with no files, standard input is read.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/loganpkg/m4"
)

func main() {
	defines := pflag.StringArrayP("define", "D", nil, "predefine a macro, name[=body]")
	undefines := pflag.StringArrayP("undefine", "U", nil, "remove a macro")
	configPath := pflag.String("config", "", "TOML startup file")
	shell := pflag.Bool("shell", false, "enable the esyscmd and maketemp builtins")
	debug := pflag.Bool("debug", false, "trace expansion to standard error")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: m4 [flags] [file ...]\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if err := run(*defines, *undefines, *configPath, *shell, *debug, pflag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "m4: %v\n", err)
		os.Exit(1)
	}
}

func run(defines, undefines []string, configPath string, shell, debug bool, files []string) error {
	p := m4.New()
	p.EnableShell = shell

	if debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer logger.Sync()
		p.Trace = logger
	}

	// Interactive runs want diversion 0 on screen as soon as it is
	// available; piped runs get a buffered writer flushed at exit.
	p.Stdout = io.Writer(os.Stdout)
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		bw := bufio.NewWriter(os.Stdout)
		defer bw.Flush()
		p.Stdout = bw
	}

	if configPath != "" {
		cfg, err := m4.LoadConfig(p.Fs, configPath)
		if err != nil {
			return err
		}
		if err := p.ApplyConfig(cfg); err != nil {
			return err
		}
	}
	for _, d := range defines {
		p.Define(m4.SplitDefine(d))
	}
	for _, name := range undefines {
		p.Undefine(name)
	}

	if len(files) > 0 {
		if err := p.LoadFiles(files...); err != nil {
			return err
		}
	} else {
		p.SetInput(os.Stdin)
	}
	return p.Run()
}
