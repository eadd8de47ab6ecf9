package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/causalgraph-engine/cmd/causalgraph/configsource"
)

// POST /api/v1/runs { "config": "diabetes_cardiovascular", "degree": 2, "threshold": 5 }
// Submits a named configuration for execution and returns a tracking ID
// immediately; stage completions are pushed over /api/v1/stream.
func (h *APIHandler) handleStartRun(c *gin.Context) {
	var req struct {
		Config    string `json:"config" binding:"required"`
		Degree    int    `json:"degree"`
		Threshold int    `json:"threshold"`
		OutputDir string `json:"outputDir"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	cfg, ok := h.namedConfigs[req.Config]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown config", "config": req.Config})
		return
	}

	cfg = configsource.ApplyFlagOverrides(cfg, configsource.FlagOverrides{
		Degree:    req.Degree,
		Threshold: req.Threshold,
		OutputDir: req.OutputDir,
		Verbose:   cfg.Verbose,
	})

	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := h.runs.Start(req.Config, cfg, h.evidenceStore)

	c.JSON(http.StatusAccepted, gin.H{
		"runId":  id,
		"status": "pending",
	})
}

// GET /api/v1/runs
func (h *APIHandler) handleListRuns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"runs": h.runs.List()})
}

// GET /api/v1/runs/:id
func (h *APIHandler) handleGetRun(c *gin.Context) {
	run := h.runs.Get(c.Param("id"))
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// GET /api/v1/runs/:id/graph
// Returns just the resulting causal graph for visualization, once the
// run has completed.
func (h *APIHandler) handleGetRunGraph(c *gin.Context) {
	run := h.runs.Get(c.Param("id"))
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if run.Outcome == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "run has not completed yet",
			"status":  run.Status,
		})
		return
	}
	c.JSON(http.StatusOK, run.Outcome.Graph)
}
