// Package main is the sight command: it culls, picks and draws the objects of a scene file.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/akmonengine/sight/config"
	"github.com/akmonengine/sight/render"
	"github.com/akmonengine/sight/volume"
)

const (
	// Flags.
	flagDebug     = "debug"
	flagScene     = "scene"
	flagOrigin    = "origin"
	flagDirection = "direction"
	flagOut       = "out"
	flagSize      = "size"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	logger := zap.NewNop()

	sceneFlag := &cli.StringFlag{
		Name:     flagScene,
		Aliases:  []string{"s"},
		Usage:    "load the scene from `FILE`",
		Required: true,
	}

	return &cli.App{
		Name:  "sight",
		Usage: "cull bounding volumes against a camera frustum",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    flagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				development, err := zap.NewDevelopment()
				if err != nil {
					return errors.Wrap(err, "cannot create logger")
				}
				logger = development
			}
			return nil
		},
		After: func(c *cli.Context) error {
			// Sync fails on terminals, nothing to report
			_ = logger.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "cull",
				Usage: "print the containment of every object of the scene",
				Flags: []cli.Flag{sceneFlag},
				Action: func(c *cli.Context) error {
					return cullAction(c, logger)
				},
			},
			{
				Name:  "ray",
				Usage: "cast a ray against the frustum and the objects of the scene",
				Flags: []cli.Flag{
					sceneFlag,
					&cli.StringFlag{
						Name:     flagOrigin,
						Usage:    "ray origin, as `X,Y,Z`",
						Required: true,
					},
					&cli.StringFlag{
						Name:     flagDirection,
						Usage:    "ray direction, as `X,Y,Z`",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return rayAction(c, logger)
				},
			},
			{
				Name:  "render",
				Usage: "draw a top-down PNG of the culled scene",
				Flags: []cli.Flag{
					sceneFlag,
					&cli.StringFlag{
						Name:     flagOut,
						Aliases:  []string{"o"},
						Usage:    "write the image to `FILE`",
						Required: true,
					},
					&cli.IntFlag{
						Name:  flagSize,
						Usage: "image width and height in pixels",
						Value: render.DefaultOptions().Size,
					},
				},
				Action: func(c *cli.Context) error {
					return renderAction(c, logger)
				},
			},
		},
	}
}

func cullAction(c *cli.Context, logger *zap.Logger) error {
	scene, err := config.Load(c.String(flagScene))
	if err != nil {
		return err
	}

	w := scene.World(logger)
	containments := make(map[int]volume.ContainmentType)
	for _, v := range w.Cull(scene.Frustum()) {
		containments[v.Index] = v.Containment
	}

	// Objects missing from the result are Disjoint, the zero value
	for i, object := range w.Objects {
		fmt.Fprintf(c.App.Writer, "%v\t%s\n", object.Id, containments[i])
	}
	return nil
}

func rayAction(c *cli.Context, logger *zap.Logger) error {
	scene, err := config.Load(c.String(flagScene))
	if err != nil {
		return err
	}

	origin, err := parseVec3(c.String(flagOrigin))
	if err != nil {
		return errors.Wrapf(err, "invalid --%s", flagOrigin)
	}
	direction, err := parseVec3(c.String(flagDirection))
	if err != nil {
		return errors.Wrapf(err, "invalid --%s", flagDirection)
	}
	if direction.LenSqr() == 0 {
		return errors.Errorf("invalid --%s: must not be zero", flagDirection)
	}

	ray := volume.Ray{Position: origin, Direction: direction.Normalize()}
	logger.Debug("ray", zap.Any("origin", ray.Position), zap.Any("direction", ray.Direction))

	if distance, ok := scene.Frustum().IntersectsRay(ray); ok {
		fmt.Fprintf(c.App.Writer, "frustum: %g\n", distance)
	} else {
		fmt.Fprintln(c.App.Writer, "frustum: miss")
	}

	if object, distance, ok := scene.World(logger).Pick(ray); ok {
		fmt.Fprintf(c.App.Writer, "object: %v %g\n", object.Id, distance)
	} else {
		fmt.Fprintln(c.App.Writer, "object: none")
	}
	return nil
}

func renderAction(c *cli.Context, logger *zap.Logger) error {
	scene, err := config.Load(c.String(flagScene))
	if err != nil {
		return err
	}
	if c.Int(flagSize) <= 0 {
		return errors.Errorf("invalid --%s: must be positive, got %d", flagSize, c.Int(flagSize))
	}

	frustum := scene.Frustum()
	w := scene.World(logger)
	visibility := w.Cull(frustum)

	opts := render.DefaultOptions()
	opts.Size = c.Int(flagSize)

	out := c.String(flagOut)
	if err := render.SavePNG(out, render.TopDown(frustum, w, visibility, opts)); err != nil {
		return errors.Wrapf(err, "cannot write %q", out)
	}

	fmt.Fprintf(c.App.Writer, "%d of %d objects visible, written to %s\n", len(visibility), len(w.Objects), out)
	return nil
}

// parseVec3 reads a vector written "x,y,z".
func parseVec3(s string) (mgl64.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return mgl64.Vec3{}, errors.Errorf("expected 3 comma separated values, got %q", s)
	}

	var v mgl64.Vec3
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return mgl64.Vec3{}, errors.Wrapf(err, "component %d", i)
		}
		v[i] = value
	}
	return v, nil
}
