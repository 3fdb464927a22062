// Package render draws debug images of a culled world.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/sight"
	"github.com/akmonengine/sight/volume"
)

var (
	Background      = color.RGBA{255, 255, 255, 255}
	FrustumColor    = color.RGBA{40, 90, 200, 255}
	ContainedColor  = color.RGBA{46, 160, 67, 255}
	IntersectsColor = color.RGBA{240, 160, 20, 255}
	CulledColor     = color.RGBA{170, 170, 170, 255}
)

// Options of TopDown.
type Options struct {
	// Size is the width and height of the image in pixels
	Size int
	// Margin is the world distance kept around the drawn content
	Margin float64
}

// DefaultOptions returns a 512 pixels image with a margin of 2 units.
func DefaultOptions() Options {
	return Options{Size: 512, Margin: 2}
}

// Projection maps the X/Z plane of the world to pixels. -Z points up in the image.
type Projection struct {
	min   mgl64.Vec3
	scale float64
}

// NewProjection fits bounds, projected on X/Z, in a square of size pixels.
func NewProjection(bounds volume.BoundingBox, size int) Projection {
	span := math.Max(bounds.Max.X()-bounds.Min.X(), bounds.Max.Z()-bounds.Min.Z())
	if span <= 0 {
		span = 1
	}
	return Projection{min: bounds.Min, scale: float64(size) / span}
}

// Point returns the pixel position of a world point.
func (p Projection) Point(v mgl64.Vec3) (float64, float64) {
	return (v.X() - p.min.X()) * p.scale, (v.Z() - p.min.Z()) * p.scale
}

// Length returns a world distance in pixels.
func (p Projection) Length(d float64) float64 {
	return d * p.scale
}

// TopDown draws, seen from above, the frustum outline and the objects of w colored by
// their classification in visibility: contained, intersecting or culled.
func TopDown(frustum *volume.BoundingFrustum, w *sight.World, visibility []sight.Visibility, opts Options) image.Image {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}

	containments := make(map[*sight.Object]volume.ContainmentType, len(visibility))
	for _, v := range visibility {
		containments[v.Object] = v.Containment
	}

	projection := NewProjection(contentBounds(frustum, w.Objects, opts.Margin), opts.Size)

	dc := gg.NewContext(opts.Size, opts.Size)
	dc.SetColor(Background)
	dc.Clear()

	drawFrustum(dc, projection, frustum)

	for _, object := range w.Objects {
		if object.WorldBounds() == nil {
			continue
		}

		fill := CulledColor
		switch containments[object] {
		case volume.Contains:
			fill = ContainedColor
		case volume.Intersects:
			fill = IntersectsColor
		}
		drawObject(dc, projection, object, fill)
	}

	dc.SetColor(color.Black)
	dc.DrawString(fmt.Sprintf("visible: %d / %d", len(visibility), len(w.Objects)), 8, 16)

	return dc.Image()
}

// SavePNG writes img to path.
func SavePNG(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}

func contentBounds(frustum *volume.BoundingFrustum, objects []*sight.Object, margin float64) volume.BoundingBox {
	bounds := frustum.AABB()
	for _, object := range objects {
		if object.WorldBounds() != nil {
			bounds = bounds.Merge(object.AABB())
		}
	}

	m := mgl64.Vec3{margin, margin, margin}
	return volume.BoundingBox{Min: bounds.Min.Sub(m), Max: bounds.Max.Add(m)}
}

func drawFrustum(dc *gg.Context, projection Projection, frustum *volume.BoundingFrustum) {
	corners := frustum.Corners()

	dc.SetColor(FrustumColor)
	dc.SetLineWidth(1.5)
	for i := 0; i < 4; i++ {
		next := (i + 1) % 4
		line(dc, projection, corners[i], corners[next])
		line(dc, projection, corners[i+4], corners[next+4])
		line(dc, projection, corners[i], corners[i+4])
	}
	dc.Stroke()
}

func line(dc *gg.Context, projection Projection, a, b mgl64.Vec3) {
	x1, y1 := projection.Point(a)
	x2, y2 := projection.Point(b)
	dc.DrawLine(x1, y1, x2, y2)
}

func drawObject(dc *gg.Context, projection Projection, object *sight.Object, fill color.Color) {
	switch bounds := object.WorldBounds().(type) {
	case volume.BoundingSphere:
		x, y := projection.Point(bounds.Center)
		dc.DrawCircle(x, y, math.Max(projection.Length(bounds.Radius), 1))
	default:
		aabb := object.AABB()
		x1, y1 := projection.Point(aabb.Min)
		x2, y2 := projection.Point(aabb.Max)
		dc.DrawRectangle(x1, y1, math.Max(x2-x1, 1), math.Max(y2-y1, 1))
	}

	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.Stroke()
}
