package tanks

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tankfield/ecs"
)

// LookRotation returns the rotation whose -Z axis points along dir, keeping its
// +Y axis in the plane of dir and up. dir must not be parallel to up.
func LookRotation(dir, up mgl64.Vec3) mgl64.Quat {
	back := dir.Mul(-1).Normalize()
	right := up.Cross(back).Normalize()
	camUp := back.Cross(right)
	return mgl64.Mat4ToQuat(mgl64.Mat3FromCols(right, camUp, back).Mat4())
}

// CameraTarget is the point the chase camera looks at for the given player pose.
func (t *Tuning) CameraTarget(player Transform) mgl64.Vec3 {
	return player.Translation.Add(t.CameraLookOffset)
}

// CameraTransform places the camera at CameraOffset in the player's local frame
// and turns it towards CameraTarget with world up.
func (t *Tuning) CameraTransform(player Transform) Transform {
	position := player.Translation.Add(player.Rotation.Rotate(t.CameraOffset))
	return Transform{
		Translation: position,
		Rotation:    LookRotation(t.CameraTarget(player).Sub(position), Up),
	}
}

// CameraSystem recomputes the camera pose from the player pose. A world without
// exactly one player and one camera is a setup error and panics.
type CameraSystem struct {
	Player ecs.Query[struct {
		*PlayerTank
		*Transform
	}]
	Cameras ecs.Query[struct {
		*Camera
		*Transform
	}]
	Tuning ecs.Singleton[Tuning]
}

func (s *CameraSystem) Execute(frame *ecs.UpdateFrame) {
	_, player, err := s.Player.Single()
	if err != nil {
		panic(fmt.Sprintf("camera: player tank lookup: %v", err))
	}
	_, camera, err := s.Cameras.Single()
	if err != nil {
		panic(fmt.Sprintf("camera: camera lookup: %v", err))
	}

	tuning := s.Tuning.MustGet()
	*camera.Transform = tuning.CameraTransform(*player.Transform)
	camera.Camera.Target = tuning.CameraTarget(*player.Transform)
}
