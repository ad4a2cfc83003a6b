package layout

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/phroun/flatmenu"
	"github.com/phroun/flatmenu/menutree"
)

// ChangeHandler is called from the watcher goroutine when the layout file
// changed on disk. Owners typically hand the event to their own goroutine
// and call Reload there.
type ChangeHandler func(s *Source, op fsnotify.Op)

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger for the source and its tree.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithChangeHandler sets the handler notified of file changes.
func WithChangeHandler(h ChangeHandler) Option {
	return func(s *Source) {
		s.handler = h
	}
}

// WithAutoReload makes the watcher goroutine call Reload itself. Only safe
// when nothing else touches the tree or its proxy concurrently.
func WithAutoReload(on bool) Option {
	return func(s *Source) {
		s.autoReload = on
	}
}

// WithDebounce sets how long the watcher waits for a burst of writes to
// settle before reporting a change.
func WithDebounce(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// Source serves one menu of a layout file as a flatmenu source. The object
// path is the layout file and the bus name is the menu name.
type Source struct {
	*menutree.Tree

	logger     *zap.Logger
	handler    ChangeHandler
	autoReload bool
	debounce   time.Duration

	mu      sync.Mutex
	path    string
	menu    string
	busType flatmenu.BusType
	status  flatmenu.Status
	lastErr error

	watcher *fsnotify.Watcher
	stop    chan struct{}
	done    chan struct{}
}

var (
	_ flatmenu.Source   = (*Source)(nil)
	_ flatmenu.Endpoint = (*Source)(nil)
)

// NewSource creates a disconnected source for the named menu of the layout
// file at path.
func NewSource(path, menu string, opts ...Option) *Source {
	s := &Source{
		logger:   zap.NewNop(),
		debounce: 100 * time.Millisecond,
		path:     path,
		menu:     menu,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Tree = menutree.New(menutree.WithLogger(s.logger.Named("tree")))
	return s
}

// SetBusName selects the menu served on the next Start or Reload.
func (s *Source) SetBusName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu = name
}

// BusName returns the menu name.
func (s *Source) BusName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menu
}

// SetObjectPath selects the layout file used on the next Start or Reload.
func (s *Source) SetObjectPath(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.path = path
}

// ObjectPath returns the layout file path.
func (s *Source) ObjectPath() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// SetBusType records the bus type. Layout files are the same on any bus.
func (s *Source) SetBusType(t flatmenu.BusType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busType = t
}

// BusType returns the recorded bus type.
func (s *Source) BusType() flatmenu.BusType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busType
}

// Status returns the connection status.
func (s *Source) Status() flatmenu.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the error that put the source into the Failed state, if any.
func (s *Source) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Source) setStatus(status flatmenu.Status, err error) {
	s.mu.Lock()
	s.status = status
	s.lastErr = err
	s.mu.Unlock()
}

// Start loads the menu into the tree and begins watching the layout file.
// Starting a running source is a no-op.
func (s *Source) Start() error {
	s.mu.Lock()
	if s.watcher != nil {
		s.mu.Unlock()
		return nil
	}
	s.status = flatmenu.Connecting
	path := s.path
	s.mu.Unlock()

	if err := s.Reload(); err != nil {
		return err
	}

	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.setStatus(flatmenu.Failed, err)
		return fmt.Errorf("watch layout: %w", err)
	}
	// Editors replace files on save, so watch the directory rather than the file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		s.setStatus(flatmenu.Failed, err)
		return fmt.Errorf("watch layout: %w", err)
	}

	s.mu.Lock()
	s.watcher = watcher
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.status = flatmenu.Connected
	s.lastErr = nil
	s.mu.Unlock()

	go s.run(watcher, filepath.Clean(path), s.stop, s.done)

	s.logger.Info("layout source started", zap.String("path", path), zap.String("menu", s.BusName()))
	return nil
}

// Stop stops watching and clears the tree. Stopping a stopped source only
// clears the tree.
func (s *Source) Stop() error {
	s.mu.Lock()
	watcher, stop, done := s.watcher, s.stop, s.done
	s.watcher, s.stop, s.done = nil, nil, nil
	s.mu.Unlock()

	var err error
	if watcher != nil {
		close(stop)
		<-done
		err = watcher.Close()
	}

	s.Clear()
	s.setStatus(flatmenu.Disconnected, nil)
	s.logger.Info("layout source stopped", zap.String("path", s.ObjectPath()))
	return err
}

// Reload reads the layout file again and syncs the tree with it. On failure
// the tree keeps its previous content and the source reports Failed.
func (s *Source) Reload() error {
	s.mu.Lock()
	path, menu := s.path, s.menu
	s.mu.Unlock()

	doc, err := LoadFile(path)
	if err != nil {
		s.setStatus(flatmenu.Failed, err)
		return err
	}
	items, err := doc.Menu(menu)
	if err != nil {
		s.setStatus(flatmenu.Failed, err)
		return err
	}
	if err := s.Sync(items...); err != nil {
		s.setStatus(flatmenu.Failed, err)
		return fmt.Errorf("sync menu %q: %w", menu, err)
	}

	s.mu.Lock()
	switch {
	case s.watcher != nil:
		s.status = flatmenu.Connected
	case s.status == flatmenu.Failed:
		s.status = flatmenu.Disconnected
	}
	s.lastErr = nil
	s.mu.Unlock()

	s.logger.Debug("layout reloaded", zap.String("path", path), zap.String("menu", menu), zap.Int("items", s.Len()))
	return nil
}

// run forwards debounced file events until stop is closed.
func (s *Source) run(watcher *fsnotify.Watcher, path string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending fsnotify.Op
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-stop:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			pending |= event.Op
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case <-fire:
			op := pending
			pending = 0
			fire = nil
			s.changed(op)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("layout watch error", zap.Error(err))
		}
	}
}

func (s *Source) changed(op fsnotify.Op) {
	s.logger.Debug("layout file changed", zap.Stringer("op", op))
	if s.autoReload {
		if err := s.Reload(); err != nil {
			s.logger.Warn("layout reload failed", zap.Error(err))
		}
	}
	if s.handler != nil {
		s.handler(s, op)
	}
}
