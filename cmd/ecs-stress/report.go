package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/aspectecs/ecs"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Entities   int
	Components int
	Spawns     int
	Edits      int

	// Results
	TotalUpdates   int64
	FinalEntities  int
	Built          int64
	Modified       int64
	Expired        int64
	Pairs          int64
	Sleeping       int
	Scheduler      *ecs.SchedulerStats
	TotalTime      time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
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
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# ECS Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Initial Entities:** {{.Entities}}
- **Component Types:** {{.Components}}
- **Systems:** {{.Scheduler.SystemCount}}
- **Builds per Update:** {{.Spawns}}
- **Reshapes per Update:** {{.Edits}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Entity Churn
- **Final Entities:** {{.FinalEntities}}
- **Queued Builds:** {{.Built}}
- **Reshapes:** {{.Modified}}
- **Expired:** {{.Expired}}
- **Interaction Pairs:** {{.Pairs}}
- **Sleeping (last census):** {{.Sleeping}}

## Systems
| System | Runs | Avg | Min | Max |
|---|---|---|---|---|
{{range .Scheduler.Systems}}| {{.Name}}{{if .Passive}} (passive){{end}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pauses
- **Pause During Run:** {{bsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs | ns}}
- **Pause per Update:** {{pauseper .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs .TotalUpdates}}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns int64) string {
			return time.Duration(ns).String()
		},
		"pauseper": func(end, start uint64, updates int64) string {
			if updates == 0 {
				return "n/a"
			}
			return time.Duration(int64(end-start) / updates).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
