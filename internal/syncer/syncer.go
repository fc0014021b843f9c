// Package syncer updates the contents of a target directory with minimal
// changes.
//
// The point of minimizing changes is to let "gsutil rsync" skip unchanged
// files. gsutil rsync compares timestamps, not contents, so locally
// unchanged files must not be touched at all. The syncer supports writing
// generated content, copying single files, and copying whole trees, and can
// finally prune files that existed in the target before the run but were not
// produced by it.
package syncer

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/natefinch/atomic"

	"github.com/palindromi-fi/builder/internal/core"
)

// Syncer tracks the files present in the target directory before the run and
// the files produced during it.
type Syncer struct {
	root   string
	old    map[string]bool
	fresh  map[string]bool
	writes int
}

// New creates the target directory if needed and records its current
// contents for later pruning.
func New(root string) (*Syncer, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &core.Error{Op: "syncer.new", Kind: core.KindIO, Path: root, Err: err}
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, &core.Error{Op: "syncer.new", Kind: core.KindIO, Path: abs, Err: err}
	}

	old := map[string]bool{}
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != abs {
			old[path] = true
		}
		return nil
	})
	if err != nil {
		return nil, &core.Error{Op: "syncer.new", Kind: core.KindIO, Path: abs, Err: err}
	}

	return &Syncer{root: abs, old: old, fresh: map[string]bool{}}, nil
}

// forget marks dest and its ancestors as produced by this run.
func (s *Syncer) forget(dest string) {
	s.fresh[dest] = true
	for dir := filepath.Dir(dest); len(dir) >= len(s.root); dir = filepath.Dir(dir) {
		s.fresh[dir] = true
		if dir == s.root {
			break
		}
	}
}

// WriteFile writes content to dest unless an identical file is already
// there. It reports whether the file was actually written.
func (s *Syncer) WriteFile(content []byte, dest string) (bool, error) {
	dest, err := filepath.Abs(dest)
	if err != nil {
		return false, &core.Error{Op: "syncer.write", Kind: core.KindIO, Path: dest, Err: err}
	}
	s.forget(dest)

	if s.old[dest] {
		delete(s.old, dest)
		existing, err := os.ReadFile(dest)
		if err == nil && bytes.Equal(existing, content) {
			return false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, &core.Error{Op: "syncer.write", Kind: core.KindIO, Path: dest, Err: err}
	}
	if err := atomic.WriteFile(dest, bytes.NewReader(content)); err != nil {
		return false, &core.Error{Op: "syncer.write", Kind: core.KindIO, Path: dest, Err: err}
	}
	s.writes++
	return true, nil
}

// Copy copies a single file through WriteFile.
func (s *Syncer) Copy(src, dest string) (bool, error) {
	content, err := os.ReadFile(src)
	if err != nil {
		return false, &core.Error{Op: "syncer.copy", Kind: core.KindIO, Path: src, Err: err}
	}
	return s.WriteFile(content, dest)
}

// CopyTree copies every file under srcRoot into destRoot, preserving the
// relative layout.
func (s *Syncer) CopyTree(srcRoot, destRoot string) error {
	return filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &core.Error{Op: "syncer.copytree", Kind: core.KindIO, Path: path, Err: err}
		}
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return &core.Error{Op: "syncer.copytree", Kind: core.KindIO, Path: path, Err: err}
		}
		if rel == "." {
			return nil
		}
		dest, err := filepath.Abs(filepath.Join(destRoot, rel))
		if err != nil {
			return &core.Error{Op: "syncer.copytree", Kind: core.KindIO, Path: dest, Err: err}
		}

		if d.IsDir() {
			s.forget(dest)
			delete(s.old, dest)
			if err := os.MkdirAll(dest, 0755); err != nil {
				return &core.Error{Op: "syncer.copytree", Kind: core.KindIO, Path: dest, Err: err}
			}
			return nil
		}
		_, err = s.Copy(path, dest)
		return err
	})
}

// CopyFS copies every file of an fs.FS (the embedded static assets) into
// destRoot.
func (s *Syncer) CopyFS(fsys fs.FS, destRoot string) error {
	return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &core.Error{Op: "syncer.copyfs", Kind: core.KindIO, Path: path, Err: err}
		}
		if path == "." {
			return nil
		}
		dest, err := filepath.Abs(filepath.Join(destRoot, filepath.FromSlash(path)))
		if err != nil {
			return &core.Error{Op: "syncer.copyfs", Kind: core.KindIO, Path: dest, Err: err}
		}

		if d.IsDir() {
			s.forget(dest)
			delete(s.old, dest)
			if err := os.MkdirAll(dest, 0755); err != nil {
				return &core.Error{Op: "syncer.copyfs", Kind: core.KindIO, Path: dest, Err: err}
			}
			return nil
		}

		content, err := fs.ReadFile(fsys, path)
		if err != nil {
			return &core.Error{Op: "syncer.copyfs", Kind: core.KindIO, Path: path, Err: err}
		}
		_, err = s.WriteFile(content, dest)
		return err
	})
}

// Prune removes everything that was in the target directory before the run
// but was not written, copied, or traversed during it. Deepest paths go
// first so directories are empty by the time they are removed.
func (s *Syncer) Prune() error {
	var stale []string
	for path := range s.old {
		if !s.fresh[path] {
			stale = append(stale, path)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(stale)))

	for _, path := range stale {
		if err := os.Remove(path); err != nil {
			return &core.Error{Op: "syncer.prune", Kind: core.KindIO, Path: path, Err: err}
		}
	}
	return nil
}

// Writes reports how many files were actually (re)written during the run.
func (s *Syncer) Writes() int {
	return s.writes
}
