package texture

import (
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for the map formats
	_ "image/png"
	"os"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-globe/internal/logging"
)

// Observer is notified once per finished load.
type Observer interface {
	TextureLoaded(ok bool)
}

// Loader decodes textures on background goroutines. Load never blocks.
type Loader struct {
	log      *logging.Logger
	observer Observer
	group    errgroup.Group

	started, loaded, failed atomic.Int64
}

// NewLoader creates a loader. obs may be nil.
func NewLoader(log *logging.Logger, obs Observer) *Loader {
	if log == nil {
		log = logging.Discard()
	}
	return &Loader{log: log, observer: obs}
}

// Load returns a handle for path and starts decoding it. A failed load is
// logged and leaves the handle empty for the life of the process; it is
// never retried. An empty path yields a handle that never resolves.
func (l *Loader) Load(path string) *Texture {
	t := New(path)
	if path == "" {
		return t
	}

	l.started.Add(1)
	l.group.Go(func() error {
		img, err := decodeFile(path)
		if err != nil {
			l.failed.Add(1)
		}
		if l.observer != nil {
			l.observer.TextureLoaded(err == nil)
		}
		if err != nil {
			l.log.Warn("texture %s unavailable, rendering without it: %v", path, err)
			return fmt.Errorf("load texture %s: %w", path, err)
		}

		t.set(img)
		l.loaded.Add(1)
		b := img.Bounds()
		l.log.Debug("texture %s loaded (%dx%d)", path, b.Dx(), b.Dy())
		return nil
	})

	return t
}

// Wait blocks until every load started so far has finished and returns the
// first failure. Rendering never needs to call it.
func (l *Loader) Wait() error {
	return l.group.Wait()
}

// Stats reports how many loads have resolved, failed, or are still running.
func (l *Loader) Stats() (loaded, failed, pending int) {
	started := l.started.Load()
	ok, bad := l.loaded.Load(), l.failed.Load()
	return int(ok), int(bad), int(max(started-ok-bad, 0))
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return img, nil
}
