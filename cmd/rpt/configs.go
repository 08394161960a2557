package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/rpt/encode"
	"github.com/signadot/rpt/format"
	"github.com/signadot/rpt/source"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`
	J     bool `cli:"name=j aliases=json desc='do i/o in json'"`
	Y     bool `cli:"name=y aliases=yaml desc='do i/o in yaml'"`
	Gops  bool `cli:"name=gops desc='start a gops agent'"`

	InFormat, OutFormat *format.Format

	Out      string
	CloseOut func() error
	tty      bool

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fps ...**format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		for _, fp := range fps {
			*fp = &f
		}
		return f, nil
	})
}

// inFormat is the format to read file in.
func (cfg *MainConfig) inFormat(file string) format.Format {
	switch {
	case cfg.InFormat != nil:
		return *cfg.InFormat
	case cfg.Y:
		return format.YAMLFormat
	case cfg.J:
		return format.JSONFormat
	}
	return format.FromPath(file)
}

func (cfg *MainConfig) outFormat() format.Format {
	switch {
	case cfg.OutFormat != nil:
		return *cfg.OutFormat
	case cfg.Y:
		return format.YAMLFormat
	}
	return format.JSONFormat
}

func (cfg *MainConfig) colored() bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name == "color" && opt.Value != nil {
			return false
		}
	}
	return cfg.tty
}

func (cfg *MainConfig) encOpts() []encode.EncodeOption {
	res := []encode.EncodeOption{encode.EncodeFormat(cfg.outFormat())}
	if cfg.colored() {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func (cfg *MainConfig) write(w io.Writer, v any) error {
	return encode.Encode(w, v, cfg.encOpts()...)
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

// DataConfig is shared by the commands which evaluate against data.
type DataConfig struct {
	*MainConfig
	Data   string
	Assets string
	Env    map[string]any
}

func (cfg *DataConfig) opts() []*cli.Opt {
	return []*cli.Opt{
		{
			Name:        "d",
			Aliases:     []string{"data"},
			Description: "data file (default the document data url)",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(setFunc(&cfg.Data)), "(file)"),
		},
		{
			Name:        "assets",
			Description: "base url for local assets",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(setFunc(&cfg.Assets)), "(url)"),
		},
		{
			Name:        "e",
			Description: "set data at path to a yaml value",
			Type:        cli.NamedFuncOpt(cli.FuncOpt(envOptTypeFunc(cfg.Env)), "(path=val)"),
		},
	}
}

func setFunc(p *string) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		*p = a
		return a, nil
	}
}

func envOptTypeFunc(env map[string]any) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		if err := envFunc(env, a); err != nil {
			return nil, err
		}
		return 0, nil
	}
}

func envFunc(env map[string]any, a string) error {
	key, val, ok := strings.Cut(a, "=")
	if !ok {
		return fmt.Errorf("%w: argument %q expected key=val", cli.ErrUsage, a)
	}
	v, err := source.Parse([]byte(val), format.YAMLFormat)
	if err != nil {
		return err
	}
	parts := strings.Split(key, ".")
	n := len(parts)
	tmpEnv := env
	for i, part := range parts {
		if i == n-1 {
			tmpEnv[part] = v
			break
		}
		next := tmpEnv[part]
		if next == nil {
			next = map[string]any{}
			tmpEnv[part] = next
		}
		nextEnv, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot access %s, list or scalar", strings.Join(parts[:i+1], "."))
		}
		tmpEnv = nextEnv
	}
	return nil
}

type NewConfig struct {
	*MainConfig
	Name   string `cli:"name=name desc='document name'"`
	Owner  string `cli:"name=owner desc='document owner'"`
	Target string `cli:"name=target desc='pdf, html, json, csv-utf-8 or csv-windows-1250'"`

	New *cli.Command
}

type CompileConfig struct {
	*DataConfig
	Compile *cli.Command
}

type TransformConfig struct {
	*DataConfig
	Limit int  `cli:"name=n desc='number of transforms to apply (default all)'"`
	CSV   bool `cli:"name=csv desc='write the resulting table as csv in the document target encoding'"`

	Transform *cli.Command
}

type EvalConfig struct {
	*DataConfig
	Funcs bool `cli:"name=funcs desc='list functions and constants'"`

	Eval *cli.Command
}

type EditConfig struct {
	*MainConfig
	Write bool   `cli:"name=w desc='write the result back to the document file'"`
	Node  string `cli:"name=node desc='node to insert, as json or yaml'"`
	Copy  bool   `cli:"name=copy desc='copy instead of moving'"`

	Edit *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Context int `cli:"name=c desc='lines of context (negative for all)'"`

	Diff *cli.Command
}
