package main

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/akmonengine/sight"
	"github.com/akmonengine/sight/volume"
)

const (
	ringRadius = 20.0
	ringSize   = 12
	steps      = 36
)

// SetupScene places a ring of crates and balls around the origin.
func SetupScene(logger *zap.Logger) *sight.World {
	world := sight.NewWorld(
		sight.WithWorkers(4),
		sight.WithLogger(logger),
	)

	for i := 0; i < ringSize; i++ {
		angle := 2 * math.Pi * float64(i) / ringSize
		position := mgl64.Vec3{ringRadius * math.Cos(angle), 0, ringRadius * math.Sin(angle)}

		if i%2 == 0 {
			half := mgl64.Vec3{1, 1, 1}
			bounds := volume.BoundingBox{Min: half.Mul(-1), Max: half}
			transform := volume.NewTransformFromAxisAngle(position, mgl64.Vec3{0, 1, 0}, angle)
			world.AddObject(sight.NewObject(fmt.Sprintf("crate-%d", i), bounds, transform))
		} else {
			world.AddObject(sight.NewObject(fmt.Sprintf("ball-%d", i), volume.BoundingSphere{Radius: 1.5}, volume.Transform{Position: position}))
		}
	}

	return world
}

// Camera returns the frustum of a camera at the origin turned by yaw radians.
func Camera(yaw float64) *volume.BoundingFrustum {
	eye := mgl64.Vec3{0, 0, 0}
	target := mgl64.Vec3{math.Cos(yaw), 0, math.Sin(yaw)}
	view := mgl64.LookAtV(eye, target, mgl64.Vec3{0, 1, 0})
	projection := mgl64.Perspective(mgl64.DegToRad(60), 16.0/9.0, 0.5, 50)

	return volume.NewBoundingFrustum(projection.Mul4(view))
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	world := SetupScene(logger)

	world.Events.Subscribe(sight.ENTER_VIEW, func(event sight.Event) {
		e := event.(sight.EnterViewEvent)
		fmt.Printf("  + %v (%s)\n", e.Object.Id, e.Containment)
	})
	world.Events.Subscribe(sight.EXIT_VIEW, func(event sight.Event) {
		e := event.(sight.ExitViewEvent)
		fmt.Printf("  - %v\n", e.Object.Id)
	})

	fmt.Println("Camera turning around a ring of objects")
	fmt.Println("=======================================")

	for step := 0; step < steps; step++ {
		yaw := 2 * math.Pi * float64(step) / steps
		fmt.Printf("--- yaw %3.0f° ---\n", mgl64.RadToDeg(yaw))

		visibility := world.Cull(Camera(yaw))
		fmt.Printf("  visible: %d / %d\n", len(visibility), len(world.Objects))
	}

	object, distance, ok := world.Pick(volume.Ray{Position: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}})
	if ok {
		fmt.Printf("Picked %v at %.2f\n", object.Id, distance)
	}
}
