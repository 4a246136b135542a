// Command dldump decodes a captured DL display-list stream and prints a
// summary of the resulting register file and decoded event counts. It is
// a thin demonstration of the dldecoder package: argument parsing and file
// I/O live here so the core package stays free of both.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dlproto/dldecoder"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("dldump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log decode progress to stderr")
	strict := fs.Bool("strict-fill", true, "abort on Fill8/Fill16 sub-count overshoot instead of clamping")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: dldump [-v] [-strict-fill=true] <capture-file>")
		return 2
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer f.Close()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	d := dldecoder.New(f, dldecoder.WithLogger(logger), dldecoder.WithStrictFill(*strict))

	counts := map[dldecoder.EventKind]int{}
	err = d.Run(context.Background(), func(ev dldecoder.Event) error {
		counts[ev.Kind]++
		return nil
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	fmt.Fprintf(stdout, "width=%d height=%d addr16=%#06x addr8=%#06x\n",
		d.Width(), d.Height(), d.CurrentAddress16(), d.CurrentAddress8())
	for _, kind := range []dldecoder.EventKind{
		dldecoder.EventSetReg, dldecoder.EventFill, dldecoder.EventMemcpy,
		dldecoder.EventDecomp, dldecoder.EventNoop,
	} {
		fmt.Fprintf(stdout, "%-8s %d\n", kind, counts[kind])
	}
	return 0
}
