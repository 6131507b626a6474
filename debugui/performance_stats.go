package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/tankfield/ecs"
)

// PerformancePanel shows frame times, per-system timings and storage layout.
type PerformancePanel struct {
	frameHistory []float32
	frameIndex   int
	lastFrame    time.Time
}

func NewPerformancePanel(historyFrames int) *PerformancePanel {
	return &PerformancePanel{
		frameHistory: make([]float32, historyFrames),
		lastFrame:    time.Now(),
	}
}

// Sample records the wall time since the previous Sample.
func (p *PerformancePanel) Sample() {
	now := time.Now()
	p.frameHistory[p.frameIndex] = float32(now.Sub(p.lastFrame).Seconds() * 1000)
	p.frameIndex = (p.frameIndex + 1) % len(p.frameHistory)
	p.lastFrame = now
}

// AverageFrameTime returns the mean of the recorded frame times in milliseconds.
func (p *PerformancePanel) AverageFrameTime() float32 {
	var total float32
	for _, ft := range p.frameHistory {
		total += ft
	}
	return total / float32(len(p.frameHistory))
}

// Item wraps the panel as an ImguiItem.
func (p *PerformancePanel) Item(storage *ecs.Storage, scheduler *ecs.Scheduler) ImguiItem {
	return ImguiItem{Render: func() {
		p.Sample()
		p.Render(storage, scheduler.GetStats())
	}}
}

func (p *PerformancePanel) Render(storage *ecs.Storage, sched *ecs.SchedulerStats) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(360, 320), imgui.CondOnce)
	if !imgui.BeginV("Performance", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	avg := p.AverageFrameTime()
	imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	imgui.PlotLinesFloatPtr("##frametime", &p.frameHistory[0], int32(len(p.frameHistory)))

	stats := storage.CollectStats()
	imgui.Separator()
	imgui.Text(fmt.Sprintf("Entities: %d", stats.TotalEntityCount))
	imgui.Text(fmt.Sprintf("Archetypes: %d", stats.ArchetypeCount))
	imgui.Text(fmt.Sprintf("Last flush: +%d / -%d", sched.LastFlush.Spawned, sched.LastFlush.Deleted))

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
	if imgui.TreeNodeStr("Systems") {
		if imgui.BeginTableV("SystemTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range sched.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Archetypes") {
		if imgui.BeginTableV("ArchetypeTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("ID")
			imgui.TableSetupColumn("Components")
			imgui.TableSetupColumn("Entities")
			imgui.TableHeadersRow()

			for _, arch := range stats.ArchetypeBreakdown {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("0x%X", arch.ID))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%v", arch.ComponentTypes))
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", arch.EntityCount))
			}
			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Singletons") {
		for _, name := range stats.SingletonTypes {
			imgui.BulletText(name)
		}
		imgui.TreePop()
	}

	imgui.End()
}
