package render

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/akmonengine/sight"
	"github.com/akmonengine/sight/volume"
)

func createFrustum() *volume.BoundingFrustum {
	view := mgl64.LookAtV(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, -1}, mgl64.Vec3{0, 1, 0})
	projection := mgl64.Perspective(mgl64.DegToRad(90), 1, 1, 20)
	return volume.NewBoundingFrustum(projection.Mul4(view))
}

func createWorld() *sight.World {
	w := sight.NewWorld()
	half := mgl64.Vec3{2, 2, 2}
	w.AddObject(sight.NewObject("in view", volume.BoundingBox{Min: half.Mul(-1), Max: half}, volume.Transform{Position: mgl64.Vec3{0, 0, -10}}))
	w.AddObject(sight.NewObject("behind", volume.BoundingBox{Min: half.Mul(-1), Max: half}, volume.Transform{Position: mgl64.Vec3{0, 0, 10}}))
	w.AddObject(sight.NewObject("across", volume.BoundingSphere{Radius: 2}, volume.Transform{Position: mgl64.Vec3{0, 0, -1}}))
	return w
}

func pixel(t *testing.T, img interface{ At(x, y int) color.Color }, projection Projection, at mgl64.Vec3) color.RGBA {
	t.Helper()
	x, y := projection.Point(at)
	return color.RGBAModel.Convert(img.At(int(x), int(y))).(color.RGBA)
}

func TestProjection(t *testing.T) {
	p := NewProjection(volume.BoundingBox{Min: mgl64.Vec3{-10, 0, -20}, Max: mgl64.Vec3{10, 5, 0}}, 100)

	x, y := p.Point(mgl64.Vec3{0, 3, -10})
	if x != 50 || y != 50 {
		t.Errorf("Point = (%v, %v), want (50, 50)", x, y)
	}
	if p.Length(2) != 10 {
		t.Errorf("Length(2) = %v, want 10", p.Length(2))
	}

	flat := NewProjection(volume.BoundingBox{}, 64)
	if flat.Length(1) != 64 {
		t.Errorf("an empty box should map one unit to the whole image, got %v", flat.Length(1))
	}
}

func TestTopDown(t *testing.T) {
	frustum := createFrustum()
	w := createWorld()
	visibility := w.Cull(frustum)

	opts := Options{Size: 220, Margin: 2}
	img := TopDown(frustum, w, visibility, opts)

	if img.Bounds().Dx() != opts.Size || img.Bounds().Dy() != opts.Size {
		t.Fatalf("image is %v, want %dx%d", img.Bounds(), opts.Size, opts.Size)
	}

	projection := NewProjection(contentBounds(frustum, w.Objects, opts.Margin), opts.Size)

	tests := []struct {
		name string
		at   mgl64.Vec3
		want color.RGBA
	}{
		{"contained box", mgl64.Vec3{0, 0, -10}, ContainedColor},
		{"culled box", mgl64.Vec3{0, 0, 10}, CulledColor},
		{"sphere across the near plane", mgl64.Vec3{0, 0, -1}, IntersectsColor},
		{"empty area", mgl64.Vec3{15, 0, 10}, Background},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pixel(t, img, projection, tt.at); got != tt.want {
				t.Errorf("pixel at %v = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestTopDown_DefaultSize(t *testing.T) {
	img := TopDown(createFrustum(), sight.NewWorld(), nil, Options{})
	if img.Bounds().Dx() != DefaultOptions().Size {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), DefaultOptions().Size)
	}
}

func TestSavePNG(t *testing.T) {
	frustum := createFrustum()
	w := createWorld()
	img := TopDown(frustum, w, w.Cull(frustum), DefaultOptions())

	path := filepath.Join(t.TempDir(), "cull.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	decoded, err := png.Decode(file)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("decoded bounds %v, want %v", decoded.Bounds(), img.Bounds())
	}
}
