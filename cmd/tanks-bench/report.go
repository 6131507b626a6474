package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/tankfield/ecs"
	"github.com/plus3/tankfield/tanks"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	Agents    int
	Seed      int64
	DeltaTime float64
	Workers   int
	ChunkSize int

	// Results
	TotalUpdates    int64
	TotalTime       time.Duration
	UpdateTime      Stats
	PeakProjectiles int
	Sim             tanks.SimStats
	Systems         []ecs.SystemStats
	GCPauseMetrics  bool
	MemStatsStart   runtime.MemStats
	MemStatsEnd     runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Tank Simulation Benchmark

## Configuration
- **Run Duration:** {{.Duration}}
- **Agents:** {{.Agents}}
- **Seed:** {{.Seed}}
- **Tick Length:** {{printf "%.4f" .DeltaTime}}s
- **Workers:** {{if .Workers}}{{.Workers}}{{else}}GOMAXPROCS{{end}} (chunk {{.ChunkSize}})

## Performance
- **Total Ticks:** {{.TotalUpdates}}
- **Total Time:** {{.TotalTime}}
- **Tick Time:**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
{{range .Systems}}- {{.Name}}: avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Simulation
- **Simulated Time:** {{printf "%.2f" .Sim.Elapsed}}s
- **Projectiles Spawned:** {{.Sim.Spawned}}
- **Projectiles Despawned:** {{.Sim.Despawned}}
- **Projectiles Live:** {{.Sim.Projectiles}} (peak {{.PeakProjectiles}})

## Memory Usage
- Heap Alloc:  {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end)
- Total Alloc: {{mb .MemStatsStart.TotalAlloc}} MB (start) -> {{mb .MemStatsEnd.TotalAlloc}} MB (end)
- Sys Memory:  {{mb .MemStatsStart.Sys}} MB (start) -> {{mb .MemStatsEnd.Sys}} MB (end)
- Num GC:      {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pauses
- **Total GC Pause:** {{ns .MemStatsEnd.PauseTotalNs}}
{{end}}`

var reportFuncs = template.FuncMap{
	"mb": func(v uint64) string {
		return fmt.Sprintf("%.2f", float64(v)/1024/1024)
	},
	"usub": func(a, b uint32) uint32 {
		return a - b
	},
	"ns": func(ns uint64) string {
		return time.Duration(ns).String()
	},
}

func (r *Report) Generate(w io.Writer) error {
	tmpl, err := template.New("report").Funcs(reportFuncs).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
