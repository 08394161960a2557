package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/rpt/report"
	"github.com/signadot/rpt/transform"
	"github.com/signadot/rpt/widget"
)

func newMain(cfg *NewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.New.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}
	doc := report.New(cfg.Owner)
	doc.Name = cfg.Name
	if cfg.Target != "" {
		doc.Target, err = report.ParseTarget(cfg.Target)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	return cfg.write(cc.Out, doc)
}

func validateMain(cfg *EditConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Edit.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: expected at least one file", cli.ErrUsage)
	}
	for _, file := range args {
		if _, err := readDoc(cfg.MainConfig, cc, file); err != nil {
			return err
		}
		fmt.Fprintf(cc.Out, "%s: ok\n", file)
	}
	return nil
}

func widgetNames() []string {
	ws := widget.Default().Widgets()
	res := make([]string, len(ws))
	for i, w := range ws {
		res[i] = w.Name()
	}
	return res
}

func transformNames() []string {
	ts := transform.Default().Transforms()
	res := make([]string, len(ts))
	for i, t := range ts {
		res[i] = t.Name()
	}
	return res
}

func adjustNames() []string { return widget.Adjusts() }

func listMain(cmd *cli.Command, cc *cli.Context, args []string, names func() []string) error {
	args, err := cmd.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: unexpected arguments %v", cli.ErrUsage, args)
	}
	for _, name := range names() {
		fmt.Fprintln(cc.Out, name)
	}
	return nil
}
