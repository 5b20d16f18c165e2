package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/symbolic"
)

const (
	historyFile = ".symbolic_history"
	promptMain  = "> "
	promptCont  = ". "
)

// repl reads expressions interactively. Assignments persist for the session.
// Input with unclosed brackets continues on the next line.
func (s *session) repl() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	hist := filepath.Join(home, historyFile)
	if f, err := os.Open(hist); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}

	for {
		src, ok, err := s.read(ln)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out)
			break
		}
		if strings.TrimSpace(src) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if err := s.run(src); err != nil {
			fmt.Fprintln(s.out, err)
		}
	}

	if f, err := os.Create(hist); err == nil {
		ln.WriteHistory(f)
		f.Close()
	}
	return nil
}

// read reads one expression. ok is false at EOF.
func (s *session) read(ln *liner.State) (src string, ok bool, err error) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		switch {
		case errors.Is(err, io.EOF):
			return "", false, nil
		case errors.Is(err, liner.ErrPromptAborted):
			// Ctrl-C discards the pending input.
			return "", true, nil
		case err != nil:
			return "", false, err
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !unclosed(b.String(), s.ctx) {
			return b.String(), true, nil
		}
	}
}

// unclosed reports whether src fails to parse only because it ends inside
// brackets.
func unclosed(src string, ctx *symbolic.Context) bool {
	_, err := symbolic.ParseString(src, ctx)
	var be *symbolic.BracketError
	return errors.As(err, &be) && be.Left != "" && be.Right == ""
}
