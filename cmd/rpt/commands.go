package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts,
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(file)"),
		},
		&cli.Opt{
			Name:        "I",
			Description: fmt.Sprintf("input format %s", formatNames()),
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.InFormat), "(fmt)"),
		},
		&cli.Opt{
			Name:        "O",
			Description: fmt.Sprintf("output format %s", formatNames()),
			Type:        cli.NamedFuncOpt(cfg.fmtFunc(&cfg.OutFormat), "(fmt)"),
		},
	)
	return cli.NewCommandAt(&cfg.Main, "rpt").
		WithSynopsis("rpt [opts] command [opts]").
		WithDescription("rpt edits, transforms and compiles report documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return rptMain(cfg, cc, args)
		}).
		WithSubs(
			NewCommand(cfg),
			ValidateCommand(cfg),
			CompileCommand(cfg),
			TransformCommand(cfg),
			EvalCommand(cfg),
			FindCommand(cfg),
			InsertCommand(cfg),
			RemoveCommand(cfg),
			UpdateCommand(cfg),
			MoveCommand(cfg),
			TreeCommand(cfg),
			WidgetsCommand(),
			TransformsCommand(),
			AdjustsCommand(),
			DiffCommand(cfg))
}

func NewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &NewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.New, "new").
		WithSynopsis("new [opts]").
		WithDescription("write an empty document").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return newMain(cfg, cc, args)
		})
}

func ValidateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EditConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Edit, "validate").
		WithAliases("v").
		WithSynopsis("validate file [file...]").
		WithDescription("check that each file is a well formed document").
		WithRun(func(cc *cli.Context, args []string) error {
			return validateMain(cfg, cc, args)
		})
}

func dataCommand(cfg *DataConfig, cmd *cli.Command, sub any) *cli.Command {
	opts, err := cli.StructOpts(sub)
	if err != nil {
		panic(err)
	}
	return cmd.WithOpts(append(opts, cfg.opts()...)...)
}

func CompileCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CompileConfig{DataConfig: &DataConfig{MainConfig: mainCfg, Env: map[string]any{}}}
	cmd := cli.NewCommandAt(&cfg.Compile, "compile").
		WithAliases("c").
		WithSynopsis("compile [opts] doc").
		WithDescription("transform data and compile doc against it").
		WithRun(func(cc *cli.Context, args []string) error {
			return compileMain(cfg, cc, args)
		})
	return dataCommand(cfg.DataConfig, cmd, cfg)
}

func TransformCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TransformConfig{DataConfig: &DataConfig{MainConfig: mainCfg, Env: map[string]any{}}}
	cmd := cli.NewCommandAt(&cfg.Transform, "transform").
		WithAliases("x").
		WithSynopsis("transform [opts] doc").
		WithDescription("apply the transforms of doc to data").
		WithRun(func(cc *cli.Context, args []string) error {
			return transformMain(cfg, cc, args)
		})
	return dataCommand(cfg.DataConfig, cmd, cfg)
}

func EvalCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EvalConfig{DataConfig: &DataConfig{MainConfig: mainCfg, Env: map[string]any{}}}
	cmd := cli.NewCommandAt(&cfg.Eval, "eval").
		WithAliases("e").
		WithSynopsis("eval [opts] formula").
		WithDescription("evaluate formula with data bound to the data file and -e settings").
		WithRun(func(cc *cli.Context, args []string) error {
			return evalMain(cfg, cc, args)
		})
	return dataCommand(cfg.DataConfig, cmd, cfg)
}

func editCommand(mainCfg *MainConfig, name, synopsis, desc string, run func(*EditConfig, *cli.Context, []string) error) *cli.Command {
	cfg := &EditConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Edit, name).
		WithSynopsis(synopsis).
		WithDescription(desc).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return run(cfg, cc, args)
		})
}

func FindCommand(mainCfg *MainConfig) *cli.Command {
	return editCommand(mainCfg, "find", "find doc path",
		"print the node at path", findMain).WithAliases("get")
}

func InsertCommand(mainCfg *MainConfig) *cli.Command {
	return editCommand(mainCfg, "insert", "insert [-node n] [-w] doc path [type]",
		"insert a new node of widget type, or the -node value, at path", insertMain).WithAliases("ins")
}

func RemoveCommand(mainCfg *MainConfig) *cli.Command {
	return editCommand(mainCfg, "remove", "remove [-w] doc path",
		"remove the node at path", removeMain).WithAliases("rm")
}

func UpdateCommand(mainCfg *MainConfig) *cli.Command {
	return editCommand(mainCfg, "update", "update [-w] doc path key=val [key=val...]",
		"set fields of the node at path to yaml values", updateMain).WithAliases("set")
}

func MoveCommand(mainCfg *MainConfig) *cli.Command {
	return editCommand(mainCfg, "move", "move [-copy] [-w] doc from to",
		"move or copy the node at from to the slot to", moveMain).WithAliases("mv")
}

func TreeCommand(mainCfg *MainConfig) *cli.Command {
	return editCommand(mainCfg, "tree", "tree doc",
		"print an outline of the document nodes", treeMain)
}

func WidgetsCommand() *cli.Command {
	return listCommand("widgets", "list the registered widget types", widgetNames)
}

func TransformsCommand() *cli.Command {
	return listCommand("transforms", "list the registered transform types", transformNames)
}

func AdjustsCommand() *cli.Command {
	return listCommand("adjusts", "list the text adjusts", adjustNames)
}

func listCommand(name, desc string, names func() []string) *cli.Command {
	var cmd *cli.Command
	cmd = cli.NewCommand(name).
		WithSynopsis(name).
		WithDescription(desc).
		WithRun(func(cc *cli.Context, args []string) error {
			return listMain(cmd, cc, args, names)
		})
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Context: 3}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithSynopsis("diff [-c n] from to").
		WithDescription("show the difference between two documents, exits 1 if they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diffMain(cfg, cc, args)
		})
}
