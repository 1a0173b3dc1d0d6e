package build

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for edits to settle.
const DefaultDebounce = 200 * time.Millisecond

// Watcher rebuilds a project whenever one of its sources changes.
type Watcher struct {
	Dir      string
	Options  Options
	Debounce time.Duration

	// OnBuild is called after every build attempt, including the first.
	OnBuild func(*Artifact, error)

	last Snapshot
}

// NewWatcher creates a watcher for the project in dir.
func NewWatcher(dir string, opts Options, onBuild func(*Artifact, error)) *Watcher {
	return &Watcher{Dir: dir, Options: opts, Debounce: DefaultDebounce, OnBuild: onBuild}
}

// Run builds once and then again after each settled change, until ctx is
// cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.Options.logger()

	project, err := LoadProject(w.Dir)
	if err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	dirs, err := project.Dirs()
	if err != nil {
		return err
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			return err
		}
	}
	log.Debug("watching %d director(y/ies) under %s", len(dirs), project.Dir)

	w.rebuild(ctx, project)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := fw.Add(ev.Name); err != nil {
						log.Warn("cannot watch %s: %v", ev.Name, err)
					}
					timer.Reset(debounce)
					continue
				}
			}
			if !isSourceEvent(ev) {
				continue
			}
			log.Debug("%s %s", ev.Op, ev.Name)
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error: %v", err)

		case <-timer.C:
			project, err := LoadProject(w.Dir)
			if err != nil {
				w.report(nil, err)
				continue
			}
			w.rebuild(ctx, project)
		}
	}
}

// rebuild builds project unless its sources are unchanged since the last
// successful snapshot.
func (w *Watcher) rebuild(ctx context.Context, project *Project) {
	snap, err := TakeSnapshot(project.Files)
	if err != nil {
		w.report(nil, err)
		return
	}
	if w.last.Files != nil && len(snap.Changed(w.last)) == 0 {
		w.Options.logger().Debug("no source changes in %s", project.Name)
		return
	}
	w.last = snap

	art, err := BuildProject(ctx, w.Dir, w.Options)
	w.report(art, err)
}

func (w *Watcher) report(art *Artifact, err error) {
	if err != nil {
		w.Options.logger().Error("%v", err)
	}
	if w.OnBuild != nil {
		w.OnBuild(art, err)
	}
}

func isSourceEvent(ev fsnotify.Event) bool {
	if filepath.Ext(ev.Name) != SourceExt {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
