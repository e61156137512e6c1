// Package imagesink stores rendered pixels in memory and writes them as an
// encoded image to a blob bucket.
package imagesink

import (
	"bufio"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"math"
	"path"
	"strings"

	"github.com/df07/go-recursive-raytracer/pkg/core"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"golang.org/x/image/tiff"
)

// DefaultBucketURL keeps flushed images in process memory
const DefaultBucketURL = "mem://"

var (
	// ErrUnsupportedFormat is returned for an output name without a .png, .tif or .tiff extension
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrInvalidSize is returned for an image without pixels
	ErrInvalidSize = errors.New("image columns and rows must be positive")
)

type format int

const (
	formatPNG format = iota
	formatTIFF
)

func (f format) contentType() string {
	if f == formatTIFF {
		return "image/tiff"
	}
	return "image/png"
}

func formatFor(name string) (format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".png":
		return formatPNG, nil
	case ".tif", ".tiff":
		return formatTIFF, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedFormat, "%q", name)
	}
}

// ImageWriter is a pixel sink backed by an NRGBA image.
// Colors are on a 0..255 scale per channel and are clamped when written.
type ImageWriter struct {
	name      string
	img       *image.NRGBA
	format    format
	bucketURL string
	bucket    *blob.Bucket
	logger    *slog.Logger
}

// Option configures an ImageWriter
type Option func(*ImageWriter)

// WithBucketURL sets the gocloud bucket URL the image is written to, e.g. file:///tmp/out
func WithBucketURL(url string) Option {
	return func(w *ImageWriter) { w.bucketURL = url }
}

// WithBucket writes into an already opened bucket. The bucket is not closed by Flush.
func WithBucket(b *blob.Bucket) Option {
	return func(w *ImageWriter) { w.bucket = b }
}

// WithLogger sets the logger used when flushing
func WithLogger(logger *slog.Logger) Option {
	return func(w *ImageWriter) { w.logger = logger }
}

// New creates a writer for a columns×rows image stored under name.
// The extension of name selects the encoding.
func New(name string, columns, rows int, opts ...Option) (*ImageWriter, error) {
	if columns <= 0 || rows <= 0 {
		return nil, errors.Wrapf(ErrInvalidSize, "%dx%d", columns, rows)
	}
	f, err := formatFor(name)
	if err != nil {
		return nil, err
	}
	w := &ImageWriter{
		name:      name,
		img:       image.NewNRGBA(image.Rect(0, 0, columns, rows)),
		format:    f,
		bucketURL: DefaultBucketURL,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	return w, nil
}

// Columns returns the image width in pixels
func (w *ImageWriter) Columns() int {
	return w.img.Rect.Dx()
}

// Rows returns the image height in pixels
func (w *ImageWriter) Rows() int {
	return w.img.Rect.Dy()
}

// Name returns the blob key the image is written to
func (w *ImageWriter) Name() string {
	return w.name
}

// Image returns the in-memory image
func (w *ImageWriter) Image() *image.NRGBA {
	return w.img
}

// WritePixel stores color at (column, row). Writes to distinct pixels may run concurrently.
func (w *ImageWriter) WritePixel(column, row int, c core.Vec3) {
	w.img.SetNRGBA(column, row, toNRGBA(c))
}

func toNRGBA(c core.Vec3) color.NRGBA {
	c = c.Clamp(0, 255)
	return color.NRGBA{R: channel(c.X), G: channel(c.Y), B: channel(c.Z), A: 255}
}

// channel rounds a clamped channel value; NaN survives Clamp and maps to 0
func channel(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	return uint8(math.Round(v))
}

// Flush encodes the image and writes it to the bucket
func (w *ImageWriter) Flush(ctx context.Context) error {
	bucket := w.bucket
	if bucket == nil {
		b, err := blob.OpenBucket(ctx, w.bucketURL)
		if err != nil {
			return errors.Wrapf(err, "open bucket %q", w.bucketURL)
		}
		defer b.Close()
		bucket = b
	}

	// Cancelling the writer's context before Close discards a partial blob
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	fd, err := bucket.NewWriter(wctx, w.name, &blob.WriterOptions{ContentType: w.format.contentType()})
	if err != nil {
		return errors.Wrapf(err, "create %q", w.name)
	}
	buf := bufio.NewWriterSize(fd, 1<<20)
	if err := w.encode(buf); err != nil {
		cancel()
		fd.Close()
		return errors.Wrapf(err, "encode %q", w.name)
	}
	if err := buf.Flush(); err != nil {
		cancel()
		fd.Close()
		return errors.Wrapf(err, "write %q", w.name)
	}
	if err := fd.Close(); err != nil {
		return errors.Wrapf(err, "close %q", w.name)
	}
	logger := w.logger
	if w.bucket == nil {
		logger = logger.With("bucket", w.bucketURL)
	}
	logger.InfoContext(ctx, "image written", "name", w.name, "columns", w.Columns(), "rows", w.Rows())
	return nil
}

func (w *ImageWriter) encode(out io.Writer) error {
	if w.format == formatTIFF {
		return tiff.Encode(out, w.img, &tiff.Options{Compression: tiff.Deflate})
	}
	return png.Encode(out, w.img)
}
