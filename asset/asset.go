// Package asset resolves asset references used by widget fields, such as
// "local/logo.png", to URLs.
package asset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const LocalPrefix = "local/"

var ErrNotFound = errors.New("asset not found")

// Resolver turns an asset reference into a retrievable URL.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// IsLocal reports whether ref names an uploaded file.
func IsLocal(ref string) bool {
	return strings.HasPrefix(ref, LocalPrefix)
}

// Prefix resolves local references by joining their name to Base. Other
// references are returned unchanged.
type Prefix struct {
	Base string
}

func (p Prefix) Resolve(_ context.Context, ref string) (string, error) {
	if !IsLocal(ref) {
		return ref, nil
	}
	name := strings.TrimPrefix(ref, LocalPrefix)
	if name == "" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return strings.TrimSuffix(p.Base, "/") + "/" + url.PathEscape(name), nil
}

// Map resolves local references from a fixed table of names.
type Map map[string]string

func (m Map) Resolve(_ context.Context, ref string) (string, error) {
	if !IsLocal(ref) {
		return ref, nil
	}
	u, ok := m[strings.TrimPrefix(ref, LocalPrefix)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	return u, nil
}
