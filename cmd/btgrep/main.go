// Command btgrep prints lines matching a backtracking regular expression.
//
// Usage:
//
//	btgrep [flags] PATTERN [FILE...]
//	btgrep [flags] -e PATTERN [-e PATTERN...] [FILE...]
//
// With no FILE, or when FILE is -, standard input is read. A line is
// selected when any pattern matches it. The exit status is 0 if a line was
// selected, 1 if none was, and 2 if an error occurred.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/coregx/btre"
	"github.com/mattn/go-isatty"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2

	maxLineSize = 16 << 20

	colorMatch = "\x1b[01;31m"
	colorReset = "\x1b[0m"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// patternList collects repeated -e flags.
type patternList []string

func (p *patternList) String() string {
	return strings.Join(*p, ", ")
}

func (p *patternList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

type options struct {
	invert     bool
	count      bool
	lineNumber bool
	filenames  bool
	color      bool
}

// grep holds the state of one invocation.
type grep struct {
	re   *btre.Regex
	opts options
	out  *bufio.Writer
	log  *slog.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("btgrep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: btgrep [flags] PATTERN [FILE...]")
		fs.PrintDefaults()
	}

	var (
		patterns   patternList
		ignoreCase = fs.Bool("i", false, "ignore ASCII case distinctions")
		invert     = fs.Bool("v", false, "select non-matching lines")
		count      = fs.Bool("c", false, "print only a count of selected lines per file")
		lineNumber = fs.Bool("n", false, "prefix each line with its line number")
		withName   = fs.Bool("H", false, "always prefix lines with the file name")
		noName     = fs.Bool("no-filename", false, "never prefix lines with the file name")
		color      = fs.String("color", "auto", "highlight matches: auto, always or never")
	)
	fs.Var(&patterns, "e", "pattern to match (repeatable)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitMatch
		}
		return exitError
	}

	files := fs.Args()
	if len(patterns) == 0 {
		if len(files) == 0 {
			fs.Usage()
			return exitError
		}
		patterns = append(patterns, files[0])
		files = files[1:]
	}

	useColor, err := colorEnabled(*color, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "btgrep: %v\n", err)
		return exitError
	}

	config := btre.DefaultConfig()
	config.ASCIIIgnoreCase = *ignoreCase
	re, err := btre.CompileWithConfig(config, patterns...)
	if err != nil {
		fmt.Fprintf(stderr, "btgrep: %v\n", err)
		return exitError
	}

	if len(files) == 0 {
		files = []string{"-"}
	}
	g := &grep{
		re: re,
		opts: options{
			invert:     *invert,
			count:      *count,
			lineNumber: *lineNumber,
			filenames:  (len(files) > 1 || *withName) && !*noName,
			color:      useColor && !*invert,
		},
		out: bufio.NewWriter(stdout),
		log: slog.New(slog.NewTextHandler(stderr, nil)),
	}
	defer g.out.Flush()

	selected, failed := false, false
	for _, name := range files {
		n, err := g.file(name, stdin)
		if err != nil {
			fmt.Fprintf(stderr, "btgrep: %s: %v\n", name, err)
			failed = true
		}
		selected = selected || n > 0
	}

	switch {
	case failed:
		return exitError
	case selected:
		return exitMatch
	default:
		return exitNoMatch
	}
}

func colorEnabled(mode string, stdout io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := stdout.(*os.File)
		return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())), nil
	}
	return false, fmt.Errorf("invalid --color value %q", mode)
}

// file searches one named input and returns the number of selected lines.
func (g *grep) file(name string, stdin io.Reader) (int, error) {
	if name == "-" {
		return g.search("(standard input)", stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return g.search(name, f)
}

func (g *grep) search(name string, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)

	selected := 0
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Bytes()
		ok, err := g.re.Match(line)
		if err != nil {
			g.log.Error("internal evaluation fault, treating line as unmatched",
				"file", name, "line", lineNo, "err", err)
			ok = false
		}
		if ok == g.opts.invert {
			continue
		}
		selected++
		if !g.opts.count {
			g.printLine(name, lineNo, line)
		}
	}

	if g.opts.count {
		if g.opts.filenames {
			fmt.Fprintf(g.out, "%s:", name)
		}
		fmt.Fprintf(g.out, "%d\n", selected)
	}
	return selected, sc.Err()
}

func (g *grep) printLine(name string, lineNo int, line []byte) {
	if g.opts.filenames {
		g.out.WriteString(name)
		g.out.WriteByte(':')
	}
	if g.opts.lineNumber {
		fmt.Fprintf(g.out, "%d:", lineNo)
	}
	if g.opts.color {
		if slots, err := g.re.FindSubmatchIndex(line); err == nil && slots != nil && slots[1] > slots[0] {
			g.out.Write(line[:slots[0]])
			g.out.WriteString(colorMatch)
			g.out.Write(line[slots[0]:slots[1]])
			g.out.WriteString(colorReset)
			g.out.Write(line[slots[1]:])
			g.out.WriteByte('\n')
			return
		}
	}
	g.out.Write(line)
	g.out.WriteByte('\n')
}
