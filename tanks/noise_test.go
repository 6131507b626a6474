package tanks_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/tankfield/tanks"
	"github.com/stretchr/testify/assert"
)

func TestNoiseDeterministic(t *testing.T) {
	a := tanks.NewNoiseField(7)
	b := tanks.NewNoiseField(7)

	for i := 0; i < 50; i++ {
		x, y, z := float64(i)*0.37, float64(i%19), float64(i)*-0.21
		assert.Equal(t, a.Sample(x, y, z), b.Sample(x, y, z))
	}
	assert.Equal(t, int64(7), a.Seed())
}

func TestNoiseSeedsDiffer(t *testing.T) {
	a := tanks.NewNoiseField(1)
	b := tanks.NewNoiseField(2)

	differs := false
	for i := 0; i < 50 && !differs; i++ {
		x, z := float64(i)*0.37+0.1, float64(i)*0.23+0.3
		differs = a.Sample(x, 3, z) != b.Sample(x, 3, z)
	}
	assert.True(t, differs)
}

func TestNoiseContinuousAndBounded(t *testing.T) {
	field := tanks.NewNoiseField(0)

	prev := field.Sample(0, 1, 0)
	for i := 1; i <= 1000; i++ {
		x := float64(i) * 0.001
		v := field.Sample(x, 1, x)
		assert.LessOrEqual(t, math.Abs(v), 1.5)
		assert.Less(t, math.Abs(v-prev), 0.05, "jump at x=%v", x)
		prev = v
	}
}

func TestHeading(t *testing.T) {
	field := tanks.NewNoiseField(3)
	pos := mgl64.Vec3{12, 0, -4}

	n := field.Sample(1.2, 5, -0.4)
	assert.InDelta(t, (0.5+n)*4*math.Pi, field.Heading(5, pos, 10), 1e-12)

	// The vertical coordinate does not take part in the sample.
	assert.Equal(t, field.Heading(5, pos, 10), field.Heading(5, mgl64.Vec3{12, 9, -4}, 10))
}
