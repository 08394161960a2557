package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/rpt"
	"github.com/signadot/rpt/asset"
	"github.com/signadot/rpt/formula"
	"github.com/signadot/rpt/report"
	"github.com/signadot/rpt/transform"
)

func (cfg *DataConfig) tool() *rpt.Tool {
	tool := rpt.DefaultTool()
	if cfg.Assets != "" {
		tool.Assets = asset.Prefix{Base: cfg.Assets}
	}
	return tool
}

func docArg(cfg *MainConfig, cc *cli.Context, args []string) (*report.Document, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: expected one document", cli.ErrUsage)
	}
	return readDoc(cfg, cc, args[0])
}

func compileMain(cfg *CompileConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Compile.Parse(cc, args)
	if err != nil {
		return err
	}
	doc, err := docArg(cfg.MainConfig, cc, args)
	if err != nil {
		return err
	}
	ctx := context.Background()
	data, err := loadData(ctx, cfg.DataConfig, doc)
	if err != nil {
		return err
	}
	res, err := cfg.tool().Compile(ctx, doc, data)
	if err != nil {
		return err
	}
	return cfg.write(cc.Out, res)
}

// limit is the -n value, or -1 if it was not given.
func (cfg *TransformConfig) limit() int {
	for _, opt := range cfg.Transform.Opts {
		if opt.Name == "n" && opt.Value != nil {
			return cfg.Limit
		}
	}
	return -1
}

func transformMain(cfg *TransformConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Transform.Parse(cc, args)
	if err != nil {
		return err
	}
	doc, err := docArg(cfg.MainConfig, cc, args)
	if err != nil {
		return err
	}
	ctx := context.Background()
	data, err := loadData(ctx, cfg.DataConfig, doc)
	if err != nil {
		return err
	}
	res, err := cfg.tool().Transform(ctx, doc, data, cfg.limit())
	if err != nil {
		return err
	}
	if !cfg.CSV {
		return cfg.write(cc.Out, res)
	}
	table, err := transform.Table(res)
	if err != nil {
		return err
	}
	target := doc.Target
	if !target.IsCSV() {
		target = report.TargetCSVUTF8
	}
	return transform.WriteCSV(cc.Out, table, target)
}

func evalMain(cfg *EvalConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Eval.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Funcs {
		fmt.Fprintf(cc.Out, "functions:\n")
		for _, s := range formula.Functions() {
			fmt.Fprintf(cc.Out, "\t- %s\n", s)
		}
		fmt.Fprintf(cc.Out, "constants:\n")
		for _, s := range formula.Constants() {
			fmt.Fprintf(cc.Out, "\t- %s\n", s)
		}
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: expected one formula", cli.ErrUsage)
	}
	ctx := context.Background()
	data, err := loadData(ctx, cfg.DataConfig, nil)
	if err != nil {
		return err
	}
	vars := formula.Vars{"data": data}
	for k, v := range cfg.tool().Helpers {
		vars[k] = v
	}
	v, err := formula.Evaluate(ctx, args[0], vars)
	if err != nil {
		return err
	}
	if formula.IsUndefined(v) {
		fmt.Fprintln(cc.Out, "undefined")
		return nil
	}
	return cfg.write(cc.Out, v)
}
