package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/causalgraph-engine/internal/engine"
	"github.com/rawblock/causalgraph-engine/internal/store"
	"github.com/rawblock/causalgraph-engine/pkg/models"
)

// APIHandler exposes the pipeline as a run-progress/health HTTP+WS
// service: submit a named configuration, watch its stages complete
// over the websocket stream, fetch the resulting graph and dossier.
type APIHandler struct {
	evidenceStore engine.EvidenceStore
	wsHub         *Hub
	runs          *RunManager
	namedConfigs  map[string]models.Configuration
}

func SetupRouter(es *store.PostgresStore, wsHub *Hub, namedConfigs map[string]models.Configuration) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS env var.
	// Production: ALLOWED_ORIGINS=https://example.org
	// Development: leave unset for *.
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{
		evidenceStore: es,
		wsHub:         wsHub,
		runs:          NewRunManager(wsHub),
		namedConfigs:  namedConfigs,
	}

	pub := r.Group("/api/v1")
	{
		pub.GET("/health", handler.handleHealth)
		pub.GET("/stream", wsHub.Subscribe)
		pub.GET("/configs", handler.handleListConfigs)
	}

	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware())
	auth.Use(NewRateLimiter(30, 5).Middleware())
	{
		auth.POST("/runs", handler.handleStartRun)
		auth.GET("/runs", handler.handleListRuns)
		auth.GET("/runs/:id", handler.handleGetRun)
		auth.GET("/runs/:id/graph", handler.handleGetRunGraph)
	}

	return r
}

// handleHealth reports service status for load-balancer/service-discovery
// probes. storeConnected only reflects whether a store handle was
// supplied at startup; no query is issued against the datastore.
func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "operational",
		"service":        "causalgraph-engine",
		"storeConnected": h.evidenceStore != nil,
		"namedConfigs":   len(h.namedConfigs),
	})
}

// handleListConfigs returns the names of the loaded exposure/outcome
// configurations, without their CUI contents (those are an
// implementation detail of the config file, not the API).
func (h *APIHandler) handleListConfigs(c *gin.Context) {
	names := make([]string, 0, len(h.namedConfigs))
	for name := range h.namedConfigs {
		names = append(names, name)
	}
	c.JSON(http.StatusOK, gin.H{"configs": names})
}
