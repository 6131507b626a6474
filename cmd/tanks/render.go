package main

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/tankfield/ecs"
	"github.com/plus3/tankfield/tanks"
)

const (
	floorHalfSize = 100.0
	gridSpacing   = 20.0
	tankRadius    = 1.0
	shotRadius    = 0.15
)

var (
	backgroundColor = color.RGBA{30, 32, 36, 255}
	gridColor       = color.RGBA{70, 74, 82, 255}
	playerOutline   = color.RGBA{255, 255, 255, 255}
)

// Screen is the singleton holding the image being drawn this frame.
type Screen struct {
	*ebiten.Image
}

// View maps world positions to screen pixels for a top-down view centred on the
// camera target, rotated so the camera looks towards the top of the screen.
type View struct {
	Center   mgl64.Vec3
	Unrotate mgl64.Quat
	Scale    float64
	Width    float64
	Height   float64
}

// NewView builds the view for a camera pose and look target.
func NewView(camera tanks.Transform, target mgl64.Vec3, scale float64, width, height int) View {
	forward := camera.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
	yaw := math.Atan2(forward.X(), forward.Z())
	return View{
		Center:   target,
		Unrotate: tanks.Yaw(-yaw),
		Scale:    scale,
		Width:    float64(width),
		Height:   float64(height),
	}
}

// Project returns the screen position of p. Height is dropped.
func (v View) Project(p mgl64.Vec3) (float32, float32) {
	d := v.Unrotate.Rotate(p.Sub(v.Center))
	x := v.Width/2 - d.X()*v.Scale
	y := v.Height/2 - d.Z()*v.Scale
	return float32(x), float32(y)
}

// RenderSystem draws the floor grid, tanks and projectiles from the camera's
// point of view. It runs on its own scheduler during ebiten's Draw.
type RenderSystem struct {
	Cameras ecs.Query[struct {
		*tanks.Camera
		*tanks.Transform
	}]
	Tanks ecs.Query[struct {
		*tanks.Transform
		*tanks.Material
		Player *tanks.PlayerTank `ecs:"optional"`
		Agent  *tanks.Agent      `ecs:"optional"`
	}]
	Projectiles ecs.Query[struct {
		*tanks.Projectile
		*tanks.Transform
		*tanks.Material
	}]
	Screen ecs.Singleton[Screen]

	Scale float64
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.MustGet().Image
	screen.Fill(backgroundColor)

	_, camera, err := s.Cameras.Single()
	if err != nil {
		return
	}
	bounds := screen.Bounds()
	view := NewView(*camera.Transform, camera.Camera.Target, s.Scale, bounds.Dx(), bounds.Dy())

	s.drawGrid(screen, view)

	scale := float32(s.Scale)
	for shot := range s.Projectiles.Values() {
		x, y := view.Project(shot.Transform.Translation)
		// Shots grow with height so arcs read from above.
		r := shotRadius * (1 + shot.Transform.Translation.Y()/10)
		vector.DrawFilledCircle(screen, x, y, float32(r)*scale, tanks.TankColor(uint32(*shot.Material)), false)
	}

	for tank := range s.Tanks.Values() {
		if tank.Player == nil && tank.Agent == nil {
			continue
		}
		pos := tank.Transform.Translation
		x, y := view.Project(pos)
		c := tanks.TankColor(uint32(*tank.Material))
		if tank.Player != nil {
			vector.DrawFilledCircle(screen, x, y, (tankRadius+0.3)*scale, playerOutline, true)
		}
		vector.DrawFilledCircle(screen, x, y, tankRadius*scale, c, true)

		nose := pos.Add(tank.Transform.Rotation.Rotate(mgl64.Vec3{0, 0, 2 * tankRadius}))
		nx, ny := view.Project(nose)
		vector.StrokeLine(screen, x, y, nx, ny, 2, c, true)
	}
}

func (s *RenderSystem) drawGrid(screen *ebiten.Image, view View) {
	for v := -floorHalfSize; v <= floorHalfSize; v += gridSpacing {
		x0, y0 := view.Project(mgl64.Vec3{v, 0, -floorHalfSize})
		x1, y1 := view.Project(mgl64.Vec3{v, 0, floorHalfSize})
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, gridColor, false)

		x0, y0 = view.Project(mgl64.Vec3{-floorHalfSize, 0, v})
		x1, y1 = view.Project(mgl64.Vec3{floorHalfSize, 0, v})
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, gridColor, false)
	}
}
