package build

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceExt is the extension of Ramen source files.
const SourceExt = ".ramen"

// ErrNoSources is returned for a project directory without Ramen files.
var ErrNoSources = errors.New("no " + SourceExt + " files found")

// Project is a directory of Ramen sources built into one program.
type Project struct {
	Dir   string
	Name  string
	Files []string // sorted, so bundles are reproducible
}

// LoadProject discovers every Ramen file under dir, recursively.
func LoadProject(dir string) (*Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	files, err := FindSources(abs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: %w", dir, ErrNoSources)
	}

	return &Project{Dir: abs, Name: filepath.Base(abs), Files: files}, nil
}

// FindSources returns the Ramen files under root in lexical order. Hidden
// directories are skipped.
func FindSources(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == SourceExt {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// Bundle concatenates the project sources.
func (p *Project) Bundle() (*Bundle, error) {
	b := NewBundle()
	if err := b.AddFiles(p.Files); err != nil {
		return nil, err
	}
	return b, nil
}

// Dirs returns the project directory and every non-hidden subdirectory.
func (p *Project) Dirs() ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(p.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != p.Dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}
