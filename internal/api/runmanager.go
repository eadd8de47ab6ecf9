package api

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/rawblock/causalgraph-engine/internal/engine"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// RunStatus is the lifecycle state of one tracked run.
type RunStatus string

const (
	RunPending RunStatus = "pending"
	RunRunning RunStatus = "running"
	RunDone    RunStatus = "done"
	RunFailed  RunStatus = "failed"
)

// Run is the in-memory record the API hands back for a submitted
// pipeline invocation. It exists purely for the HTTP/WS surface — the
// engine itself has no notion of a "run ID" beyond the Outcome's
// SnapshotID.
type Run struct {
	ID         string            `json:"id"`
	ConfigName string            `json:"configName"`
	Status     RunStatus         `json:"status"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt,omitempty"`
	Outcome    *models.Outcome   `json:"outcome,omitempty"`
	Error      string            `json:"error,omitempty"`
	Stages     map[string]float64 `json:"stages,omitempty"`
}

// RunManager tracks submitted runs and fans out their stage progress
// over a Hub, the same mutex-protected-map-of-cases shape the
// investigation tracker used for Bitcoin cases, repurposed here for
// causal-graph runs.
type RunManager struct {
	mu   sync.Mutex
	runs map[string]*Run
	hub  *Hub
}

func NewRunManager(hub *Hub) *RunManager {
	return &RunManager{
		runs: make(map[string]*Run),
		hub:  hub,
	}
}

// Start launches a pipeline run in the background and returns
// immediately with its tracking ID.
func (rm *RunManager) Start(configName string, cfg models.Configuration, es engine.EvidenceStore) string {
	id := fmt.Sprintf("run-%d", time.Now().UnixNano())
	run := &Run{
		ID:         id,
		ConfigName: configName,
		Status:     RunPending,
		StartedAt:  time.Now(),
		Stages:     make(map[string]float64),
	}

	rm.mu.Lock()
	rm.runs[id] = run
	rm.mu.Unlock()

	go rm.execute(id, cfg, es)

	return id
}

func (rm *RunManager) execute(id string, cfg models.Configuration, es engine.EvidenceStore) {
	rm.setStatus(id, RunRunning)

	onProgress := func(stage string, elapsed float64) {
		rm.mu.Lock()
		if run, ok := rm.runs[id]; ok {
			run.Stages[stage] = elapsed
		}
		rm.mu.Unlock()
		if rm.hub != nil {
			rm.hub.Broadcast([]byte(fmt.Sprintf(
				`{"type":"stage_complete","runId":%q,"stage":%q,"elapsedSeconds":%f}`,
				id, stage, elapsed)))
		}
	}

	outcome, err := engine.Run(context.Background(), cfg, es, onProgress)

	rm.mu.Lock()
	run, ok := rm.runs[id]
	if ok {
		run.FinishedAt = time.Now()
		if err != nil {
			run.Status = RunFailed
			run.Error = err.Error()
		} else {
			run.Status = RunDone
			run.Outcome = &outcome
		}
	}
	rm.mu.Unlock()

	if err != nil {
		log.Printf("[api] run %s failed: %v", id, err)
	} else {
		log.Printf("[api] run %s completed: evidenceFound=%v", id, outcome.EvidenceFound)
	}
	if rm.hub != nil {
		rm.hub.Broadcast([]byte(fmt.Sprintf(`{"type":"run_finished","runId":%q}`, id)))
	}
}

func (rm *RunManager) setStatus(id string, status RunStatus) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if run, ok := rm.runs[id]; ok {
		run.Status = status
	}
}

// Get returns the tracked run, or nil if no such ID exists.
func (rm *RunManager) Get(id string) *Run {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return rm.runs[id]
}

// List returns all tracked runs, most recent first.
func (rm *RunManager) List() []*Run {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	out := make([]*Run, 0, len(rm.runs))
	for _, r := range rm.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	return out
}
