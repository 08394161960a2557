package transform

import (
	"context"
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/rpt/report"
)

var jsonPatchT = &jsonPatch{name: "JSONPatch"}

// JSONPatch applies an RFC 6902 patch, given as the list of operations in
// the patch field, to the data.
func JSONPatch() Transform { return jsonPatchT }

type jsonPatch struct{ name }

func (p *jsonPatch) NewItem() *report.Transform {
	return report.NewTransform(p.Name(), map[string]any{"patch": []any{}})
}

func (p *jsonPatch) Apply(_ context.Context, data any, t *report.Transform) (any, error) {
	ops, ok := t.Fields["patch"]
	if !ok {
		return data, nil
	}
	pb, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPatch, err)
	}
	patch, err := jsonpatch.DecodePatch(pb)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPatch, err)
	}
	if data == nil {
		if len(patch) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: cannot patch null data", ErrBadPatch)
	}
	db, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out, err := patch.Apply(db)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPatch, err)
	}
	var res any
	if err := json.Unmarshal(out, &res); err != nil {
		return nil, err
	}
	return res, nil
}
