package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadPath = errors.New("bad path")

// Path addresses a node by descending child indices from the document's
// top level children. The empty path addresses no node.
type Path []int

// ParsePath parses the dotted form produced by Path.String, e.g. "1.0.2".
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, ".")
	res := make(Path, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadPath, s)
		}
		res[i] = n
	}
	return res, nil
}

func (p Path) String() string {
	var b strings.Builder
	for i, n := range p {
		if i != 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Child returns a new path addressing the i'th child of p.
func (p Path) Child(i int) Path {
	res := make(Path, len(p)+1)
	copy(res, p)
	res[len(p)] = i
	return res
}

// Parent returns the path of the parent of p, which is empty for top level
// nodes.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p.Clone()[:len(p)-1]
}

func (p Path) Last() int {
	return p[len(p)-1]
}

func (p Path) Clone() Path {
	res := make(Path, len(p))
	copy(res, p)
	return res
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether o is a prefix of p.
func (p Path) HasPrefix(o Path) bool {
	if len(o) > len(p) {
		return false
	}
	return p[:len(o)].Equal(o)
}
