package widget

import (
	"context"
	"fmt"

	"github.com/signadot/rpt/asset"
	"github.com/signadot/rpt/report"
)

var imageW = &image{name: "Image"}

// Image shows an image taken from a url, an uploaded asset ("local/name")
// or a formula yielding a url.
func Image() Widget { return imageW }

type image struct{ name }

func (w *image) NewItem() *report.Node {
	return report.NewNode(w.Name(), map[string]any{
		"url":     "",
		"formula": "",
		"width":   "",
	})
}

func (w *image) Compile(ctx context.Context, n *report.Node, h *Helper) (*report.Compiled, error) {
	var data string
	switch url, src := n.Str("url"), n.Str("formula"); {
	case url != "":
		data = url
		if asset.IsLocal(url) && h.Assets != nil {
			u, err := h.Assets.Resolve(ctx, url)
			if err != nil {
				return nil, FieldError("url", err)
			}
			data = u
		}
	case src != "":
		v, err := h.EvalField(ctx, "formula", src)
		if err != nil {
			return nil, err
		}
		s, ok := v.(string)
		if !ok {
			return nil, FieldError("formula", fmt.Errorf("%w: expected string, got %s", ErrBadValue, kind(v)))
		}
		data = s
	}
	fields := map[string]any{"data": data}
	all := n.CopyFields()
	for _, k := range []string{"align", "width", "height", "fit"} {
		if v, ok := all[k]; ok {
			fields[k] = v
		}
	}
	return report.NewCompiled(n.Type, fields), nil
}
