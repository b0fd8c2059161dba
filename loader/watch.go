package loader

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/loopcontext/transcat"
)

// Watch re-loads a locale into apply whenever its catalog file is created,
// written or renamed. apply is typically (*transcat.Engine).Load, which
// already discards superseded or invalid reloads, so rapid successive writes
// are safe. onError, if non-nil, receives load failures (a file mid-write,
// a parse error); watching continues.
//
// The returned stop function closes the watcher and waits for the event loop
// to drain.
func (l *DirLoader) Watch(apply func(transcat.LocaleCatalog) (*transcat.Report, error), onError func(error)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("loader: watch: %w", err)
	}
	if err := watcher.Add(l.Dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("loader: watch %s: %w", l.Dir, err)
	}

	report := func(err error) {
		if onError != nil && err != nil {
			onError(err)
		}
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				locale, ok := localeOfFile(filepath.Base(event.Name))
				if !ok {
					continue
				}
				cat, err := l.LoadCatalog(locale)
				if err != nil {
					report(err)
					continue
				}
				if _, err := apply(cat); err != nil {
					report(err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				report(err)
			}
		}
	}()

	stop := func() error {
		err := watcher.Close()
		wg.Wait()
		return err
	}
	return stop, nil
}
