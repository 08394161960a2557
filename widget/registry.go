package widget

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps node types to widgets.
type Registry struct {
	mu sync.RWMutex
	d  map[string]Widget
}

func NewRegistry(ws ...Widget) (*Registry, error) {
	r := &Registry{d: map[string]Widget{}}
	for _, w := range ws {
		if err := r.Register(w); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(w Widget) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, present := r.d[w.Name()]
	if present {
		return fmt.Errorf("%s: %w", w.Name(), ErrWidgetExists)
	}
	r.d[w.Name()] = w
	return nil
}

func (r *Registry) Lookup(s string) Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.d[s]
}

// Widgets returns the registered widgets sorted by name.
func (r *Registry) Widgets() []Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]Widget, 0, len(r.d))
	for _, w := range r.d {
		res = append(res, w)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name() < res[j].Name() })
	return res
}

func (r *Registry) names() []string {
	ws := r.Widgets()
	res := make([]string, len(ws))
	for i, w := range ws {
		res[i] = w.Name()
	}
	return res
}

// Builtins returns the widgets every document may use.
func Builtins() []Widget {
	return []Widget{
		TextSimple(),
		TextHtml(),
		Html(),
		Image(),
		Repeat(),
		Condition(),
		FirstMatch(),
		Counter(),
		SetVar(),
		UpdateVar(),
		Frame(),
		Columns(),
		ColumnsCt(),
		Spacer(),
		Separator(),
		PageBreak(),
	}
}

// Default returns a new registry holding the builtin widgets.
func Default() *Registry {
	r, err := NewRegistry(Builtins()...)
	if err != nil {
		panic(err)
	}
	return r
}
