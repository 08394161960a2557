package report

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

var ErrInvalid = errors.New("invalid document")

// Validate reports every structural problem found in d. The result, if not
// nil, is a *multierror.Error whose entries wrap ErrInvalid.
func Validate(d *Document) error {
	var errs *multierror.Error
	add := func(format string, args ...any) {
		errs = multierror.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	if !d.Target.Valid() {
		add("target %q", d.Target)
	}
	seen := map[*Node]Path{}
	var walk func(p Path, nodes []*Node)
	walk = func(p Path, nodes []*Node) {
		for i, n := range nodes {
			cp := p.Child(i)
			if n == nil {
				add("node %s is nil", cp)
				continue
			}
			if prev, ok := seen[n]; ok {
				add("node %s is also at %s", cp, prev)
				continue
			}
			seen[n] = cp
			if n.Type == "" {
				add("node %s has no type", cp)
			}
			walk(cp, n.Children)
		}
	}
	walk(Path{}, d.Children)
	for i, t := range d.Transforms {
		if t == nil || t.Type == "" {
			add("transform %d has no type", i)
		}
	}
	vars := map[string]bool{}
	for i, v := range d.Variables {
		if v.Name == "" {
			add("variable %d has no name", i)
			continue
		}
		if vars[v.Name] {
			add("variable %q defined twice", v.Name)
		}
		vars[v.Name] = true
	}
	return errs.ErrorOrNil()
}
