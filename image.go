package arbor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ImageState is the lifecycle state of an ImageSource.
type ImageState uint8

const (
	ImageIdle    ImageState = iota // not started
	ImagePending                   // loader running
	ImageReady                     // image available
	ImageFailed                    // loader returned an error
)

func (s ImageState) String() string {
	switch s {
	case ImageIdle:
		return "idle"
	case ImagePending:
		return "pending"
	case ImageReady:
		return "ready"
	case ImageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ImageLoader produces a decoded image. It runs on its own goroutine.
type ImageLoader func(ctx context.Context) (image.Image, error)

// ImageSource is a handle to an image that becomes available asynchronously.
// It is the only arbor type that is safe for concurrent use: the loader
// goroutine resolves it while the draw loop polls it.
type ImageSource struct {
	load ImageLoader

	mu    sync.Mutex
	state ImageState
	img   image.Image
	err   error
	done  chan struct{}
}

// NewImageSource creates an idle source that runs load when started.
func NewImageSource(load ImageLoader) *ImageSource {
	return &ImageSource{load: load, done: make(chan struct{})}
}

// ImageFromImage wraps an already decoded image in a ready source.
func ImageFromImage(img image.Image) *ImageSource {
	src := &ImageSource{state: ImageReady, img: img, done: make(chan struct{})}
	close(src.done)
	return src
}

// ImageFromBytes creates a source that decodes data when started.
func ImageFromBytes(data []byte) *ImageSource {
	return NewImageSource(func(context.Context) (image.Image, error) {
		return DecodeImage(bytes.NewReader(data))
	})
}

// ImageFromFile creates a source that reads and decodes path when started.
func ImageFromFile(path string) *ImageSource {
	return NewImageSource(func(ctx context.Context) (image.Image, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		img, err := DecodeImage(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return img, nil
	})
}

// DecodeImage decodes PNG, JPEG, GIF, BMP, TIFF or WebP data.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("decode image: empty %s image", format)
	}
	return img, nil
}

// Start runs the loader on a new goroutine. No-op unless the source is idle.
func (src *ImageSource) Start(ctx context.Context) {
	src.mu.Lock()
	if src.state != ImageIdle {
		src.mu.Unlock()
		return
	}
	src.state = ImagePending
	done := src.done
	src.mu.Unlock()

	go func() {
		img, err := src.load(ctx)
		if err == nil && img == nil {
			err = errors.New("loader returned no image")
		}
		src.mu.Lock()
		if err != nil {
			src.state = ImageFailed
			src.err = err
		} else {
			src.state = ImageReady
			src.img = img
		}
		src.mu.Unlock()
		close(done)
	}()
}

// State returns the current lifecycle state.
func (src *ImageSource) State() ImageState {
	src.mu.Lock()
	defer src.mu.Unlock()
	return src.state
}

// Image returns the decoded image once ready. It returns an error wrapping
// ErrImageUnavailable after a failure and ErrImagePending before resolution.
func (src *ImageSource) Image() (image.Image, error) {
	_, img, err := src.snapshot()
	return img, err
}

func (src *ImageSource) snapshot() (ImageState, image.Image, error) {
	src.mu.Lock()
	defer src.mu.Unlock()
	switch src.state {
	case ImageReady:
		return src.state, src.img, nil
	case ImageFailed:
		return src.state, nil, fmt.Errorf("%w: %w", ErrImageUnavailable, src.err)
	default:
		return src.state, nil, ErrImagePending
	}
}

// Done returns a channel closed when the current load attempt resolves.
func (src *ImageSource) Done() <-chan struct{} {
	src.mu.Lock()
	defer src.mu.Unlock()
	return src.done
}

// Wait starts the source if idle and blocks until it resolves or ctx ends.
// It returns the load error, if any.
func (src *ImageSource) Wait(ctx context.Context) error {
	src.Start(ctx)
	select {
	case <-src.Done():
		_, err := src.Image()
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Retry resets a failed source and starts a new load attempt. Retrying is
// always the caller's decision; arbor never retries on its own.
func (src *ImageSource) Retry(ctx context.Context) {
	src.mu.Lock()
	if src.state != ImageFailed {
		src.mu.Unlock()
		return
	}
	src.state = ImageIdle
	src.err = nil
	src.done = make(chan struct{})
	src.mu.Unlock()
	src.Start(ctx)
}

// LoadImages starts every source and waits for all of them. The first
// failure is returned; the remaining sources keep their own state.
func LoadImages(ctx context.Context, sources ...*ImageSource) error {
	for _, src := range sources {
		src.Start(ctx)
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		g.Go(func() error {
			return src.Wait(gctx)
		})
	}
	return g.Wait()
}

// --- Image node ---

// ImagePainter blits an ImageSource into the node's outer box.
//
// Drawing never blocks on the source. The first draw of an idle source starts
// it; draws while it is pending draw nothing and never start a second load.
// Once the source fails, every draw returns its error until the host calls
// ImageSource.Retry.
//
// A source started by a draw runs under context.Background(). Hosts that
// need cancellation call Source.Start(ctx) before the first draw.
type ImagePainter struct {
	Source *ImageSource

	awaiting bool
}

// NewImage creates a node that displays src stretched over its outer box.
func NewImage(name string, src *ImageSource) *Node {
	return NewNode(name, &ImagePainter{Source: src})
}

// Awaiting reports whether a draw has started or observed a pending load
// that has not resolved yet.
func (p *ImagePainter) Awaiting() bool {
	return p.awaiting
}

func (p *ImagePainter) DrawSelf(n *Node, s Surface) error {
	if p.Source == nil {
		return nil
	}
	state, img, err := p.Source.snapshot()
	switch state {
	case ImageIdle:
		p.awaiting = true
		p.Source.Start(context.Background())
		return nil
	case ImagePending:
		p.awaiting = true
		return nil
	case ImageFailed:
		p.awaiting = false
		return err
	}
	p.awaiting = false
	b := n.Outer.Bounds()
	s.DrawImage(img, b.X, b.Y, b.Width, b.Height)
	return nil
}

func (p *ImagePainter) DrawOverlay(*Node, Surface) error {
	return nil
}
