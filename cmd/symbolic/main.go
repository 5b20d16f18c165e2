package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/symbolic"
	"github.com/zephyrtronium/symbolic/derive"
	"github.com/zephyrtronium/symbolic/simplify"
)

// session holds what every expression in a run shares.
type session struct {
	ctx   *symbolic.Context
	simp  *simplify.Simplifier
	diff  *derive.Differentiator
	log   zerolog.Logger
	out   io.Writer
	verb  string
	echo  bool
	steps bool
	// simplify requests printing the simplified tree instead of a value.
	simplify bool
}

func main() {
	var (
		inname, verb, bindfile, dvar string
		with                         [][2]string
		nl, echo, simp, steps, repl  bool
		verbose                      bool
		prec                         int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%v", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.StringVar(&bindfile, "bindings", "", "YAML file of variable and function definitions")
	flag.IntVar(&prec, "p", 64, "precision of calculations in bits")
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&simp, "simplify", false, "print simplified expressions instead of evaluating")
	flag.StringVar(&dvar, "d", "", "print derivatives with respect to the given variable")
	flag.BoolVar(&steps, "steps", false, "print the rules applied while simplifying")
	flag.BoolVar(&repl, "i", false, "interactive mode")
	flag.BoolVar(&verbose, "v", false, "log rule applications")
	flag.Parse()

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	if prec <= 0 {
		log.Fatal().Int("prec", prec).Msg("precision must be positive")
	}

	ctx := symbolic.NewContext(symbolic.Prec(uint(prec)))
	if bindfile != "" {
		if err := loadBindings(ctx, bindfile); err != nil {
			log.Fatal().Err(err).Str("file", bindfile).Msg("loading bindings")
		}
	}
	for _, d := range with {
		nm := d[0]
		vl := d[1]
		r, err := evalIn(ctx, vl)
		if err != nil {
			log.Fatal().Err(err).Str("name", nm).Msg("setting variable")
		}
		ctx.Bind(nm, r)
	}

	s := &session{
		ctx:      ctx,
		simp:     simplify.New(simplify.WithLogger(log)),
		log:      log,
		out:      os.Stdout,
		verb:     verb + "\n",
		echo:     echo,
		steps:    steps,
		simplify: simp,
	}
	if dvar != "" {
		s.diff = derive.New(dvar, derive.WithSimplifier(s.simp))
	}

	if repl {
		if err := s.repl(); err != nil {
			log.Fatal().Err(err).Msg("interactive mode")
		}
		return
	}

	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal().Err(err).Msg("opening input")
	}
	if f != nil {
		b, err := io.ReadAll(f)
		if err != nil {
			log.Fatal().Err(err).Msg("reading input")
		}
		if nl {
			srcs = append(srcs, strings.Split(string(b), "\n")...)
		} else {
			srcs = append(srcs, string(b))
		}
	}
	srcs = append(srcs, flag.Args()...)

	failed := false
	for _, src := range srcs {
		if strings.TrimSpace(src) == "" {
			continue
		}
		if err := s.run(src); err != nil {
			fmt.Fprintln(s.out, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// run handles one expression.
func (s *session) run(src string) error {
	a, err := symbolic.ParseString(src, s.ctx)
	if err != nil {
		var ie symbolic.InputError
		if errors.As(err, &ie) {
			s.log.Debug().Int("col", ie.Pos()).Str("src", src).Msg("parse error")
		}
		return err
	}
	if s.echo {
		fmt.Fprintf(s.out, "%v : ", a)
	}
	switch {
	case s.diff != nil:
		d, err := s.diff.AnalyzeExpr(a)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, d)
	case s.simplify:
		r, steps := s.simp.Steps(a.Node())
		if s.steps {
			for _, st := range steps {
				fmt.Fprintf(s.out, "  %-16s %v  =>  %v\n", st.Rule, st.Before, st.After)
			}
		}
		fmt.Fprintln(s.out, r)
	default:
		r := s.ctx.Eval(a)
		if r == nil {
			return s.ctx.Err()
		}
		fmt.Fprintf(s.out, s.verb, r)
	}
	return nil
}

func infile(inname string, std bool) (io.Reader, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewReader(f), nil
}
