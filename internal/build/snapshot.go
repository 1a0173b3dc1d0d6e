package build

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"time"
)

// FileState represents input file metadata used for change detection.
type FileState struct {
	Path    string
	Size    int64
	ModTime time.Time
	SHA256  string
}

// Snapshot records the state of a project's sources at one point in time.
type Snapshot struct {
	Files []FileState // sorted by path
}

// HashFile computes SHA-256 for a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// TakeSnapshot hashes the given files.
func TakeSnapshot(paths []string) (Snapshot, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	states := make([]FileState, 0, len(sorted))
	for _, p := range sorted {
		info, err := os.Stat(p)
		if err != nil {
			return Snapshot{}, err
		}
		sum, err := HashFile(p)
		if err != nil {
			return Snapshot{}, err
		}
		states = append(states, FileState{Path: p, Size: info.Size(), ModTime: info.ModTime().UTC(), SHA256: sum})
	}
	return Snapshot{Files: states}, nil
}

// Changed returns the paths added, removed or modified between prev and s,
// in sorted order. Only content counts: a touched but unmodified file is
// not a change.
func (s Snapshot) Changed(prev Snapshot) []string {
	before := make(map[string]string, len(prev.Files))
	for _, f := range prev.Files {
		before[f.Path] = f.SHA256
	}

	var changed []string
	for _, f := range s.Files {
		sum, ok := before[f.Path]
		if !ok || sum != f.SHA256 {
			changed = append(changed, f.Path)
		}
		delete(before, f.Path)
	}
	for p := range before {
		changed = append(changed, p)
	}
	sort.Strings(changed)
	return changed
}
