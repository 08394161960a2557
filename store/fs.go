package store

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/signadot/rpt/debug"
	"github.com/signadot/rpt/format"
	"github.com/signadot/rpt/report"
)

type fsStore struct {
	fs  afero.Fs
	dir string
	f   format.Format
}

// NewFS returns a Store keeping each document in a file named by its id
// under dir, encoded in f.
func NewFS(fs afero.Fs, dir string, f format.Format) (Store, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &fsStore{fs: fs, dir: dir, f: f}, nil
}

func (s *fsStore) file(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("%w: bad id %q", ErrNotFound, id)
	}
	return path.Join(s.dir, id+s.f.Suffix()), nil
}

func (s *fsStore) Load(_ context.Context, id string) (*report.Document, error) {
	p, err := s.file(id)
	if err != nil {
		return nil, err
	}
	d, err := afero.ReadFile(s.fs, p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	return report.Decode(d, s.f)
}

// Save writes to a temporary file which is then renamed over the
// document's file.
func (s *fsStore) Save(_ context.Context, doc *report.Document) error {
	if doc.ID == "" {
		return ErrNoID
	}
	p, err := s.file(doc.ID)
	if err != nil {
		return err
	}
	d, err := report.Encode(doc, s.f)
	if err != nil {
		return err
	}
	tmp := path.Join(s.dir, "."+doc.ID+"-"+uuid.NewString())
	if err := afero.WriteFile(s.fs, tmp, d, 0o644); err != nil {
		return err
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		s.fs.Remove(tmp)
		return err
	}
	if debug.Store() {
		debug.Logf("saved %s (%d bytes)\n", p, len(d))
	}
	return nil
}

func (s *fsStore) Delete(_ context.Context, id string) error {
	p, err := s.file(id)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *fsStore) List(_ context.Context) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, err
	}
	suffix := s.f.Suffix()
	res := []string{}
	for _, fi := range infos {
		n := fi.Name()
		if fi.IsDir() || strings.HasPrefix(n, ".") || !strings.HasSuffix(n, suffix) {
			continue
		}
		res = append(res, strings.TrimSuffix(n, suffix))
	}
	sort.Strings(res)
	return res, nil
}
