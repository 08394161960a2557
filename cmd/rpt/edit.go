package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/signadot/rpt/encode"
	"github.com/signadot/rpt/format"
	"github.com/signadot/rpt/report"
	"github.com/signadot/rpt/source"
	"github.com/signadot/rpt/tree"
	"github.com/signadot/rpt/widget"
)

type editArgs struct {
	file  string
	doc   *report.Document
	paths []report.Path
	rest  []string
}

// parseEdit parses the command line of an edit command, which takes a
// document followed by n paths and then any extra arguments.
func parseEdit(cfg *EditConfig, cc *cli.Context, args []string, n int) (*editArgs, error) {
	args, err := cfg.Edit.Parse(cc, args)
	if err != nil {
		return nil, err
	}
	if len(args) < n+1 {
		return nil, fmt.Errorf("%w: expected doc and %d path(s)", cli.ErrUsage, n)
	}
	res := &editArgs{file: args[0], rest: args[n+1:]}
	res.doc, err = readDoc(cfg.MainConfig, cc, res.file)
	if err != nil {
		return nil, err
	}
	for _, a := range args[1 : n+1] {
		p, err := report.ParsePath(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		res.paths = append(res.paths, p)
	}
	return res, nil
}

func findMain(cfg *EditConfig, cc *cli.Context, args []string) error {
	ea, err := parseEdit(cfg, cc, args, 1)
	if err != nil {
		return err
	}
	n, err := tree.Find(ea.doc, ea.paths[0])
	if err != nil {
		return err
	}
	return cfg.write(cc.Out, n)
}

func insertMain(cfg *EditConfig, cc *cli.Context, args []string) error {
	ea, err := parseEdit(cfg, cc, args, 1)
	if err != nil {
		return err
	}
	var n *report.Node
	switch {
	case cfg.Node != "" && len(ea.rest) == 0:
		n, err = parseNode(cfg.Node)
		if err != nil {
			return err
		}
	case cfg.Node == "" && len(ea.rest) == 1:
		w := widget.Default().Lookup(ea.rest[0])
		if w == nil {
			return fmt.Errorf("%w: %q", widget.ErrUnknownWidget, ea.rest[0])
		}
		n = w.NewItem()
	default:
		return fmt.Errorf("%w: expected one of -node or a widget type", cli.ErrUsage)
	}
	res, err := tree.Insert(ea.doc, ea.paths[0], n)
	if err != nil {
		return err
	}
	return writeDoc(cfg.MainConfig, cc, ea.file, res, cfg.Write)
}

func parseNode(s string) (*report.Node, error) {
	d, err := yaml.YAMLToJSON([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("node: %w", err)
	}
	n := &report.Node{}
	if err := json.Unmarshal(d, n); err != nil {
		return nil, fmt.Errorf("node: %w", err)
	}
	return n, nil
}

func removeMain(cfg *EditConfig, cc *cli.Context, args []string) error {
	ea, err := parseEdit(cfg, cc, args, 1)
	if err != nil {
		return err
	}
	res, err := tree.Remove(ea.doc, ea.paths[0])
	if err != nil {
		return err
	}
	return writeDoc(cfg.MainConfig, cc, ea.file, res, cfg.Write)
}

func updateMain(cfg *EditConfig, cc *cli.Context, args []string) error {
	ea, err := parseEdit(cfg, cc, args, 1)
	if err != nil {
		return err
	}
	if len(ea.rest) == 0 {
		return fmt.Errorf("%w: expected key=val", cli.ErrUsage)
	}
	n, err := tree.Find(ea.doc, ea.paths[0])
	if err != nil {
		return err
	}
	for _, a := range ea.rest {
		k, val, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return fmt.Errorf("%w: argument %q expected key=val", cli.ErrUsage, a)
		}
		v, err := source.Parse([]byte(val), format.YAMLFormat)
		if err != nil {
			return err
		}
		n = n.With(k, v)
	}
	res, err := tree.Update(ea.doc, ea.paths[0], n)
	if err != nil {
		return err
	}
	return writeDoc(cfg.MainConfig, cc, ea.file, res, cfg.Write)
}

func moveMain(cfg *EditConfig, cc *cli.Context, args []string) error {
	ea, err := parseEdit(cfg, cc, args, 2)
	if err != nil {
		return err
	}
	mode := tree.MoveNode
	if cfg.Copy {
		mode = tree.CopyNode
	}
	res, err := tree.Move(ea.doc, ea.paths[0], ea.paths[1], mode)
	if err != nil {
		return err
	}
	return writeDoc(cfg.MainConfig, cc, ea.file, res, cfg.Write)
}

func treeMain(cfg *EditConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Edit.Parse(cc, args)
	if err != nil {
		return err
	}
	doc, err := docArg(cfg.MainConfig, cc, args)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cc.Out, encode.Outline(doc))
	return err
}
