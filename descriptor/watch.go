package descriptor

import (
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Reload is a stage file that changed on disk, already parsed.
type Reload struct {
	Path  string
	Stage *Stage
	Err   error
}

// Watcher loads stage files off the main thread when they change. Results
// arrive on Events and must be applied by the frame loop.
type Watcher struct {
	watcher *fsnotify.Watcher
	Events  chan Reload
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
	load    func(string) (*Stage, error)
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Events:  make(chan Reload, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
		load:    LoadStageFile,
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// run loads a file once it has been quiet for the debounce window, so a
// create followed by a write is parsed once with its final contents.
func (w *Watcher) run() {
	defer close(w.done)
	pending := make(map[string]time.Time)
	ticker := time.NewTicker(25 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isStageFile(event.Name) {
				continue
			}
			pending[event.Name] = time.Now()
		case now := <-ticker.C:
			for name, t := range pending {
				if now.Sub(t) < debounce {
					continue
				}
				delete(pending, name)
				if !w.emit(name) {
					return
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) emit(name string) bool {
	stage, err := w.load(name)
	if err != nil {
		log.Printf("descriptor: reload %s: %v", name, err)
	}
	select {
	case w.Events <- Reload{Path: name, Stage: stage, Err: err}:
		return true
	case <-w.closeCh:
		return false
	}
}

func isStageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
