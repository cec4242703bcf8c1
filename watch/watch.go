// Package watch re-translates a source tree whenever one of its Java files
// changes.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/java2objc/translate"
)

var log = commonlog.GetLogger("java2objc.watch")

// DefaultDebounce collapses bursts of editor writes into one rebuild.
const DefaultDebounce = 500 * time.Millisecond

// BuildFunc observes the report of every rebuild.
type BuildFunc func(*translate.Report, error)

type Watcher struct {
	root     string
	opts     translate.Options
	debounce time.Duration
	onBuild  BuildFunc

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
	builds  chan struct{}
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

func OnBuild(fn BuildFunc) Option {
	return func(w *Watcher) {
		w.onBuild = fn
	}
}

func New(root string, opts translate.Options, options ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}
	w := &Watcher{
		root:     root,
		opts:     opts,
		debounce: DefaultDebounce,
		watcher:  fsw,
		builds:   make(chan struct{}, 1),
	}
	for _, option := range options {
		option(w)
	}
	if err := w.addDirs(); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addDirs watches root and every directory below it that is not hidden.
func (w *Watcher) addDirs() error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "watch %s", path)
		}
		return nil
	})
}

// Sources lists the .java files below root in lexical order.
func (w *Watcher) Sources() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != w.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".java" {
			paths = append(paths, path)
		}
		return nil
	})
	sort.Strings(paths)
	return paths, err
}

// Run translates the tree once and then again after every change, until
// ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	w.build(ctx)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil
		case <-w.builds:
			w.build(ctx)
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			log.Warningf("watch %s: %s", w.root, err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				log.Warningf("watch %s: %s", event.Name, err)
			}
			return
		}
	}
	if filepath.Ext(event.Name) != ".java" {
		return
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	log.Debugf("%s: %s", event.Name, event.Op)
	w.schedule()
}

// schedule queues a rebuild once the debounce period passes without
// further events.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		select {
		case w.builds <- struct{}{}:
		default:
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// build runs one batch over the current sources with a fresh translator,
// so removed files no longer contribute declarations.
func (w *Watcher) build(ctx context.Context) {
	paths, err := w.Sources()
	if err != nil {
		log.Errorf("scan %s: %s", w.root, err)
	}
	var report *translate.Report
	if len(paths) == 0 {
		log.Infof("%s: no Java sources", w.root)
		report = &translate.Report{}
		err = nil
	} else {
		report, err = translate.NewTranslator(w.opts).Run(ctx, paths)
		if report != nil {
			log.Infof("%s: translated %d of %d files", w.root, report.Succeeded(), len(paths))
		}
	}
	if w.onBuild != nil {
		w.onBuild(report, err)
	}
}
