package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/rpt/diff"
)

func diffMain(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: expected 2 documents", cli.ErrUsage)
	}
	from, err := readDoc(cfg.MainConfig, cc, args[0])
	if err != nil {
		return err
	}
	to, err := readDoc(cfg.MainConfig, cc, args[1])
	if err != nil {
		return err
	}
	lines, differ, err := diff.Documents(from, to, cfg.outFormat())
	if err != nil {
		return err
	}
	if !differ {
		return nil
	}
	fmt.Fprint(cc.Out, diff.Format(lines, cfg.Context, cfg.colored()))
	if cfg.CloseOut != nil {
		cfg.CloseOut()
	}
	os.Exit(1)
	return nil
}
