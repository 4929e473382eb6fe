package pipeline

import (
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Has(StageLex) || tm.Sum(Stages...) != 0 {
		t.Fatalf("zero timings should be empty")
	}
	tm.Add(StageLex, 2*time.Millisecond)
	tm.Add(StageLex, 3*time.Millisecond)
	tm.Add(StageParse, time.Millisecond)
	if got := tm.Duration(StageLex); got != 5*time.Millisecond {
		t.Errorf("lex = %v", got)
	}
	if got := tm.Sum(StageLex, StageParse); got != 6*time.Millisecond {
		t.Errorf("sum = %v", got)
	}
	if tm.Has(StageRun) {
		t.Errorf("run should not be recorded")
	}
}

func TestSinks(t *testing.T) {
	ch := make(chan Event, 4)
	Emit(ChannelSink{Ch: ch}, "a.cr", StageParse, StatusWorking, nil, 0)
	if ev := <-ch; ev.File != "a.cr" || ev.Stage != StageParse || ev.Status != StatusWorking {
		t.Errorf("event = %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{}) // nil канал игнорируется
	Emit(nil, "a.cr", StageRun, StatusDone, nil, 0)

	rec := &RecordingSink{}
	EmitQueued(rec, []string{"a.cr", "b.cr"})
	events := rec.Events()
	if len(events) != 2 || events[1].File != "b.cr" || events[1].Status != StatusQueued {
		t.Errorf("events = %+v", events)
	}
}

func TestNormalizeFiles(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "b.cr"),
		filepath.Join(base, "sub", "a.cr"),
		filepath.Join(base, "b.cr"),
		"",
	}
	got := NormalizeFiles(files, base)
	want := []string{"b.cr", "sub/a.cr"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
