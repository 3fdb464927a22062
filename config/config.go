// Package config loads the JSON scene files used by the sight command: a camera, the
// broad phase settings and the objects to cull.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/akmonengine/sight"
	"github.com/akmonengine/sight/volume"
)

// Scene is the root of a scene file. Exactly one of Camera and Orthographic must be set.
type Scene struct {
	Camera       *Camera       `json:"camera,omitempty"`
	Orthographic *Orthographic `json:"orthographic,omitempty"`
	Grid         Grid          `json:"grid"`
	Workers      int           `json:"workers"`
	Objects      []Object      `json:"objects"`
}

// View places a camera. Up defaults to +Y.
type View struct {
	Position mgl64.Vec3 `json:"position"`
	Target   mgl64.Vec3 `json:"target"`
	Up       mgl64.Vec3 `json:"up"`
}

// Camera is a perspective camera. Aspect defaults to 1.
type Camera struct {
	View
	FovyDegrees float64 `json:"fovy_degrees"`
	Aspect      float64 `json:"aspect"`
	Near        float64 `json:"near"`
	Far         float64 `json:"far"`
}

// Orthographic is a parallel projection camera.
type Orthographic struct {
	View
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Top    float64 `json:"top"`
	Near   float64 `json:"near"`
	Far    float64 `json:"far"`
}

// Grid configures the broad phase.
type Grid struct {
	CellSize float64 `json:"cell_size"`
	Cells    int     `json:"cells"`
}

// Object is a bounding volume, box or sphere, rotated then moved to Position.
type Object struct {
	ID              string     `json:"id"`
	Box             *Box       `json:"box,omitempty"`
	Sphere          *Sphere    `json:"sphere,omitempty"`
	Position        mgl64.Vec3 `json:"position"`
	RotationAxis    mgl64.Vec3 `json:"rotation_axis"`
	RotationDegrees float64    `json:"rotation_degrees"`
}

type Box struct {
	Min mgl64.Vec3 `json:"min"`
	Max mgl64.Vec3 `json:"max"`
}

type Sphere struct {
	Center mgl64.Vec3 `json:"center"`
	Radius float64    `json:"radius"`
}

// Load reads and validates the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read scene")
	}

	scene, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid scene %q", path)
	}
	return scene, nil
}

// Parse decodes a scene, applies the defaults and validates it. Unknown fields are errors.
func Parse(data []byte) (*Scene, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var scene Scene
	if err := decoder.Decode(&scene); err != nil {
		return nil, errors.Wrap(err, "cannot decode scene")
	}

	scene.applyDefaults()
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return &scene, nil
}

func (s *Scene) applyDefaults() {
	if s.Camera != nil {
		s.Camera.View.applyDefaults()
		if s.Camera.Aspect == 0 {
			s.Camera.Aspect = 1
		}
	}
	if s.Orthographic != nil {
		s.Orthographic.View.applyDefaults()
	}
	if s.Grid.CellSize == 0 {
		s.Grid.CellSize = sight.DEFAULT_CELL_SIZE
	}
	if s.Grid.Cells == 0 {
		s.Grid.Cells = sight.DEFAULT_CELLS
	}
	if s.Workers == 0 {
		s.Workers = sight.DEFAULT_WORKERS
	}
}

func (v *View) applyDefaults() {
	if v.Up == (mgl64.Vec3{}) {
		v.Up = mgl64.Vec3{0, 1, 0}
	}
}

// Validate returns every problem of the scene, combined with multierr.
func (s *Scene) Validate() error {
	var errs error

	switch {
	case s.Camera == nil && s.Orthographic == nil:
		errs = multierr.Append(errs, newFieldRequiredError("scene", "camera"))
	case s.Camera != nil && s.Orthographic != nil:
		errs = multierr.Append(errs, newValidationError("scene", errors.New("camera and orthographic are exclusive")))
	case s.Camera != nil:
		errs = multierr.Append(errs, s.Camera.Validate("camera"))
	default:
		errs = multierr.Append(errs, s.Orthographic.Validate("orthographic"))
	}

	errs = multierr.Append(errs, s.Grid.Validate("grid"))
	if s.Workers < 0 {
		errs = multierr.Append(errs, newValidationError("workers", errors.Errorf("must not be negative, got %d", s.Workers)))
	}

	seen := make(map[string]bool, len(s.Objects))
	for i, object := range s.Objects {
		path := fmt.Sprintf("objects.%d", i)
		errs = multierr.Append(errs, object.Validate(path))

		if object.ID != "" && seen[object.ID] {
			errs = multierr.Append(errs, newValidationError(path, errors.Errorf("duplicate id %q", object.ID)))
		}
		seen[object.ID] = true
	}

	return errs
}

func (v *View) Validate(path string) error {
	direction := v.Target.Sub(v.Position)
	if direction.LenSqr() == 0 {
		return newValidationError(path, errors.New("position and target must differ"))
	}
	if direction.Cross(v.Up).LenSqr() == 0 {
		return newValidationError(path, errors.New("up must not be parallel to the view direction"))
	}
	return nil
}

func (c *Camera) Validate(path string) error {
	errs := c.View.Validate(path)

	if c.FovyDegrees <= 0 || c.FovyDegrees >= 180 {
		errs = multierr.Append(errs, newValidationError(path, errors.Errorf("fovy_degrees must be in (0, 180), got %v", c.FovyDegrees)))
	}
	if c.Aspect <= 0 {
		errs = multierr.Append(errs, newValidationError(path, errors.Errorf("aspect must be positive, got %v", c.Aspect)))
	}
	if c.Near <= 0 || c.Far <= c.Near {
		errs = multierr.Append(errs, newValidationError(path, errors.Errorf("expected 0 < near < far, got near=%v far=%v", c.Near, c.Far)))
	}
	return errs
}

func (o *Orthographic) Validate(path string) error {
	errs := o.View.Validate(path)

	if o.Left >= o.Right {
		errs = multierr.Append(errs, newValidationError(path, errors.Errorf("expected left < right, got left=%v right=%v", o.Left, o.Right)))
	}
	if o.Bottom >= o.Top {
		errs = multierr.Append(errs, newValidationError(path, errors.Errorf("expected bottom < top, got bottom=%v top=%v", o.Bottom, o.Top)))
	}
	if o.Far <= o.Near {
		errs = multierr.Append(errs, newValidationError(path, errors.Errorf("expected near < far, got near=%v far=%v", o.Near, o.Far)))
	}
	return errs
}

func (g *Grid) Validate(path string) error {
	var errs error
	if g.CellSize < 0 {
		errs = multierr.Append(errs, newValidationError(path, errors.Errorf("cell_size must be positive, got %v", g.CellSize)))
	}
	if g.Cells < 0 {
		errs = multierr.Append(errs, newValidationError(path, errors.Errorf("cells must be positive, got %d", g.Cells)))
	}
	return errs
}

func (o *Object) Validate(path string) error {
	var errs error

	if o.ID == "" {
		errs = multierr.Append(errs, newFieldRequiredError(path, "id"))
	}

	switch {
	case o.Box == nil && o.Sphere == nil:
		errs = multierr.Append(errs, newFieldRequiredError(path, "box"))
	case o.Box != nil && o.Sphere != nil:
		errs = multierr.Append(errs, newValidationError(path, errors.New("box and sphere are exclusive")))
	case o.Box != nil:
		for axis := 0; axis < 3; axis++ {
			if o.Box.Min[axis] > o.Box.Max[axis] {
				errs = multierr.Append(errs, newValidationError(path, errors.Errorf("box min %v exceeds max %v", o.Box.Min, o.Box.Max)))
				break
			}
		}
	default:
		if o.Sphere.Radius < 0 {
			errs = multierr.Append(errs, newValidationError(path, errors.Errorf("sphere radius must not be negative, got %v", o.Sphere.Radius)))
		}
	}

	if o.RotationDegrees != 0 && o.RotationAxis.LenSqr() == 0 {
		errs = multierr.Append(errs, newFieldRequiredError(path, "rotation_axis"))
	}
	return errs
}

// ViewProjection returns the camera matrix, OpenGL clip space.
func (s *Scene) ViewProjection() mgl64.Mat4 {
	if s.Camera != nil {
		c := s.Camera
		view := mgl64.LookAtV(c.Position, c.Target, c.Up)
		return mgl64.Perspective(mgl64.DegToRad(c.FovyDegrees), c.Aspect, c.Near, c.Far).Mul4(view)
	}

	o := s.Orthographic
	view := mgl64.LookAtV(o.Position, o.Target, o.Up)
	return mgl64.Ortho(o.Left, o.Right, o.Bottom, o.Top, o.Near, o.Far).Mul4(view)
}

// Frustum returns the view frustum of the camera.
func (s *Scene) Frustum() *volume.BoundingFrustum {
	return volume.NewBoundingFrustum(s.ViewProjection())
}

// Bounds returns the local bounding volume of o.
func (o *Object) Bounds() volume.Volume {
	if o.Box != nil {
		return volume.BoundingBox{Min: o.Box.Min, Max: o.Box.Max}
	}
	return volume.BoundingSphere{Center: o.Sphere.Center, Radius: o.Sphere.Radius}
}

// Transform returns the placement of o.
func (o *Object) Transform() volume.Transform {
	return volume.NewTransformFromAxisAngle(o.Position, o.RotationAxis, mgl64.DegToRad(o.RotationDegrees))
}

// World builds a world holding the objects of the scene, in file order.
func (s *Scene) World(logger *zap.Logger) *sight.World {
	if logger == nil {
		logger = zap.NewNop()
	}

	w := sight.NewWorld(
		sight.WithWorkers(s.Workers),
		sight.WithSpatialGrid(sight.NewSpatialGrid(s.Grid.CellSize, s.Grid.Cells)),
		sight.WithLogger(logger),
	)
	for i := range s.Objects {
		object := &s.Objects[i]
		w.AddObject(sight.NewObject(object.ID, object.Bounds(), object.Transform()))
	}

	logger.Debug("scene loaded", zap.Int("objects", len(s.Objects)), zap.Int("workers", s.Workers))
	return w
}

func newValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}

func newFieldRequiredError(path, field string) error {
	return newValidationError(path, errors.Errorf("%q is required", field))
}
