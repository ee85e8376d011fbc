package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/bounce/sim"
)

type Report struct {
	// Configuration
	Scene          string
	Ticks          int
	DeltaTime      float64
	Balls          int
	Workers        int
	GCPauseMetrics bool

	// Results, one per mode
	Runs []Run
}

type Run struct {
	Mode          sim.Mode
	TotalTime     time.Duration
	StepTime      Stats
	Counters      sim.Counters
	Gravity       float64
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
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
# Bounce Stress Test Report

## Test Configuration
- **Scene:** {{.Scene}}
- **Ticks:** {{.Ticks}} x {{.DeltaTime}}s
- **Initial Balls:** {{.Balls}}
- **ECS Workers:** {{.Workers}}
{{range .Runs}}
## Mode: {{.Mode}}
- **Total Time:** {{.TotalTime}}
- **Step Time:**
  - **Avg:** {{.StepTime.Avg}}
  - **Min:** {{.StepTime.Min}}
  - **Max:** {{.StepTime.Max}}
- **Contacts Ingested:** {{.Counters.Contacts}}
- **New Collisions:** {{.Counters.Collisions}}
- **Spawns:** {{.Counters.Spawns}}
- **Final Balls:** {{.Counters.Balls}}
- **Final Gravity:** {{printf "%.3f" .Gravity}}
- Heap Alloc delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}} bytes ({{mb .MemStatsEnd.HeapAlloc}} MiB at end)
- Total Alloc delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}} bytes
- Num GC: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if $.GCPauseMetrics}}- GC Pause: {{bsub .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs | ns}}
{{end}}{{end}}`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns int64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
