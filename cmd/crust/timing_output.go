package main

import (
	"fmt"
	"io"
	"time"

	"crust/internal/pipeline"
)

var stageVerbs = map[pipeline.Stage]string{
	pipeline.StageLex:     "lexed",
	pipeline.StageParse:   "parsed",
	pipeline.StageResolve: "resolved",
	pipeline.StageRun:     "ran",
}

func printStageTimings(out io.Writer, timings pipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range pipeline.Stages {
		if !timings.Has(stage) {
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", stageVerbs[stage], toMillis(timings.Duration(stage)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
