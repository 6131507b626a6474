package main

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tankfield/tanks"
	"github.com/stretchr/testify/assert"
)

func TestViewCentersOnTarget(t *testing.T) {
	tuning := tanks.DefaultTuning()
	player := tanks.Identity()
	view := NewView(tuning.CameraTransform(player), tuning.CameraTarget(player), 10, 800, 600)

	x, y := view.Project(mgl64.Vec3{0, 1, 0})
	assert.InDelta(t, 400, x, 1e-4)
	assert.InDelta(t, 300, y, 1e-4)

	// Ahead of the camera is up the screen, the camera's right is screen right.
	_, y = view.Project(mgl64.Vec3{0, 0, 5})
	assert.InDelta(t, 250, y, 1e-4)
	x, _ = view.Project(mgl64.Vec3{-5, 0, 0})
	assert.InDelta(t, 450, x, 1e-4)
}

func TestViewFollowsPlayerHeading(t *testing.T) {
	tuning := tanks.DefaultTuning()
	player := tanks.Transform{Rotation: tanks.Yaw(math.Pi / 2)}
	view := NewView(tuning.CameraTransform(player), tuning.CameraTarget(player), 10, 800, 600)

	// The player faces +X, so +X is ahead.
	x, y := view.Project(mgl64.Vec3{5, 0, 0})
	assert.InDelta(t, 400, x, 1e-4)
	assert.InDelta(t, 250, y, 1e-4)
}
