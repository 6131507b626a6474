package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/plus3/tankfield/ecs"
	"github.com/plus3/tankfield/tanks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()

	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	var empty Stats
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	r := &Report{
		Duration:        time.Second,
		Agents:          19,
		DeltaTime:       1.0 / 60,
		ChunkSize:       256,
		TotalUpdates:    60,
		PeakProjectiles: 1140,
		Sim:             tanks.SimStats{Elapsed: 1, Spawned: 1140, Projectiles: 1140},
		Systems:         []ecs.SystemStats{{Name: "ProjectileSystem", AvgDuration: time.Microsecond}},
	}
	r.MemStatsEnd.HeapAlloc = 2 * 1024 * 1024

	var buf bytes.Buffer
	require.NoError(t, r.Generate(&buf))

	out := buf.String()
	assert.Contains(t, out, "**Agents:** 19")
	assert.Contains(t, out, "**Workers:** GOMAXPROCS (chunk 256)")
	assert.Contains(t, out, "- ProjectileSystem: avg 1µs")
	assert.Contains(t, out, "**Projectiles Spawned:** 1140")
	assert.Contains(t, out, "2.00 MB (end)")
	assert.NotContains(t, out, "GC Pauses")
}
