package tanks

import (
	"math"

	"github.com/plus3/tankfield/ecs"
)

// PlayerTurnRate is the player's yaw speed in radians per second at full input.
const PlayerTurnRate = 2.0

// PlayerInput is the singleton the input layer writes before each tick.
// Throttle and Turn are in [-1, 1]; positive Turn yaws left.
type PlayerInput struct {
	Throttle float64
	Turn     float64
}

// Heading recovers the yaw angle of a pure-yaw rotation.
func Heading(pose Transform) float64 {
	f := pose.Rotation.Rotate(Forward(0))
	return math.Atan2(f.X(), f.Z())
}

// PlayerSystem drives the player tank from PlayerInput. With no input the
// player pose is left untouched.
type PlayerSystem struct {
	Player ecs.Query[struct {
		*PlayerTank
		*Transform
	}]
	Input  ecs.Singleton[PlayerInput]
	Tuning ecs.Singleton[Tuning]
}

func (s *PlayerSystem) Execute(frame *ecs.UpdateFrame) {
	input := s.Input.Get()
	if input == nil || (input.Throttle == 0 && input.Turn == 0) {
		return
	}

	tuning := s.Tuning.MustGet()
	for player := range s.Player.Values() {
		angle := Heading(*player.Transform) + input.Turn*PlayerTurnRate*frame.DeltaTime
		*player.Transform = Drive(*player.Transform, angle, input.Throttle*tuning.AgentSpeed, frame.DeltaTime)
	}
}
