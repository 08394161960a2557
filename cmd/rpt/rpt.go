package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/gops/agent"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/spf13/afero"

	"github.com/signadot/rpt/format"
	"github.com/signadot/rpt/report"
	"github.com/signadot/rpt/source"
)

func rptMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if f, ok := cc.Out.(*os.File); ok {
		cfg.tty = isatty.IsTerminal(f.Fd())
		cc.Out = colorOut(f)
	}
	if cfg.CloseOut != nil {
		defer cfg.CloseOut()
	}
	if cfg.Gops {
		if err := agent.Listen(agent.Options{}); err != nil {
			fmt.Fprintf(cc.Out, "gops agent: %v\n", err)
		}
	}
	if cfg.J && cfg.Y {
		return fmt.Errorf("%w: must specify at most one of -j[son] -y[aml]", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// colorOut wraps f so ANSI colors render on every platform, keeping f's
// Close.
func colorOut(f *os.File) io.WriteCloser {
	return struct {
		io.Writer
		io.Closer
	}{colorable.NewColorable(f), f}
}

func formatNames() string {
	fs := format.AllFormats()
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}
	return "(" + strings.Join(names, "|") + ")"
}

var fsys afero.Fs = afero.NewOsFs()

func readFile(cc *cli.Context, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cc.In)
	}
	return afero.ReadFile(fsys, file)
}

func readDoc(cfg *MainConfig, cc *cli.Context, file string) (*report.Document, error) {
	d, err := readFile(cc, file)
	if err != nil {
		return nil, err
	}
	doc, err := report.Decode(d, cfg.inFormat(file))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return doc, nil
}

// writeDoc writes doc to file if inPlace, in the format of file, and to
// the output otherwise.
func writeDoc(cfg *MainConfig, cc *cli.Context, file string, doc *report.Document, inPlace bool) error {
	if !inPlace || file == "-" {
		return cfg.write(cc.Out, doc)
	}
	d, err := report.Encode(doc, cfg.inFormat(file))
	if err != nil {
		return err
	}
	return afero.WriteFile(fsys, file, d, 0644)
}

// loadData returns the data for doc: the -d file if given, the document
// data url otherwise, with the -e settings merged over it.
func loadData(ctx context.Context, cfg *DataConfig, doc *report.Document) (any, error) {
	var src source.Source
	switch {
	case cfg.Data != "":
		src = source.File{FS: fsys, Path: cfg.Data}
	case doc != nil:
		s, err := source.ForDocument(fsys, doc)
		if err != nil {
			return nil, err
		}
		src = s
	default:
		src = source.Inline{}
	}
	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(cfg.Env) == 0 {
		return data, nil
	}
	m, ok := data.(map[string]any)
	if data != nil && !ok {
		return nil, fmt.Errorf("%w: -e requires object data", cli.ErrUsage)
	}
	if m == nil {
		m = map[string]any{}
	}
	merge(m, cfg.Env)
	return m, nil
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		sm, ok := v.(map[string]any)
		dm, dok := dst[k].(map[string]any)
		if ok && dok {
			merge(dm, sm)
			continue
		}
		dst[k] = v
	}
}
