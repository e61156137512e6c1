package renderer

import (
	"context"

	"github.com/df07/go-recursive-raytracer/pkg/core"
)

// PixelSink receives rendered colors. WritePixel is called concurrently for
// distinct pixels; Flush is called once after every pixel has been written.
type PixelSink interface {
	Columns() int
	Rows() int
	WritePixel(column, row int, color core.Vec3)
	Flush(ctx context.Context) error
}
