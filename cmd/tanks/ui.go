package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tankfield/debugui"
	"github.com/plus3/tankfield/ecs"
	"github.com/plus3/tankfield/tanks"
)

func spawnSimulationWindow(storage *ecs.Storage, seed int64) {
	stats := ecs.NewSingleton[tanks.SimStats](storage)
	storage.Spawn(debugui.ImguiItem{
		Render: func() {
			imgui.SetNextWindowPosV(imgui.NewVec2(10, 340), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(360, 190), imgui.CondOnce)
			if imgui.BeginV("Simulation", nil, 0) {
				sim := stats.MustGet()
				imgui.Text(fmt.Sprintf("Seed: %d", seed))
				imgui.Text(fmt.Sprintf("Tick: %d", sim.Tick))
				imgui.Text(fmt.Sprintf("Time: %.1f s", sim.Elapsed))
				imgui.Separator()
				imgui.Text(fmt.Sprintf("Agents: %d", sim.Agents))
				imgui.Text(fmt.Sprintf("Projectiles: %d", sim.Projectiles))
				imgui.Text(fmt.Sprintf("Spawned: %d", sim.Spawned))
				imgui.Text(fmt.Sprintf("Despawned: %d", sim.Despawned))
				imgui.Separator()
				imgui.Text("WASD / arrows drive the player")
			}
			imgui.End()
		},
	})
}
