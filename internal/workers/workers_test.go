// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"testing"
)

// recordingWorker appends its lifecycle calls to a shared log.
type recordingWorker struct {
	name string
	log  *[]string
}

func (r *recordingWorker) Start(context.Context) {
	*r.log = append(*r.log, "start "+r.name)
}

func (r *recordingWorker) Stop() {
	*r.log = append(*r.log, "stop "+r.name)
}

func TestWorkers_StartInOrderStopInReverse(t *testing.T) {
	var log []string
	ws := NewWorkers(
		&recordingWorker{name: "a", log: &log},
		&recordingWorker{name: "b", log: &log},
		&recordingWorker{name: "c", log: &log},
	)

	ws.Start(context.Background())
	ws.Stop()

	expected := []string{"start a", "start b", "start c", "stop c", "stop b", "stop a"}
	if len(log) != len(expected) {
		t.Fatalf("expected %d calls, got %d: %v", len(expected), len(log), log)
	}
	for i, v := range expected {
		if log[i] != v {
			t.Errorf("expected log[%d]=%q, got %q", i, v, log[i])
		}
	}
}

func TestWorkers_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on empty workers list
	ws.Start(context.Background())
	ws.Stop()
}

func TestWorkers_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Start(context.Background())
	ws.Stop()
}
