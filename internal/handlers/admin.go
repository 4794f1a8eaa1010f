package handlers

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"agent-ranker/internal/auth"
	"agent-ranker/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler handles the admin interface: crawl and recompute
// triggers plus claim-token issuing.
type AdminHandler struct {
	db             *gorm.DB
	indexerService *services.IndexerService
	rankingService *services.RankingService
	claimIssuer    *auth.ClaimIssuer
}

// NewAdminHandler creates a new admin handler. indexerService may be
// nil when no platform credentials are configured.
func NewAdminHandler(db *gorm.DB, indexerService *services.IndexerService, claimIssuer *auth.ClaimIssuer) *AdminHandler {
	return &AdminHandler{
		db:             db,
		indexerService: indexerService,
		rankingService: services.NewRankingService(db),
		claimIssuer:    claimIssuer,
	}
}

// AdminAuth middleware for basic password protection
func (h *AdminHandler) AdminAuth() gin.HandlerFunc {
	return gin.BasicAuth(gin.Accounts{
		"admin": getAdminPassword(),
	})
}

// getAdminPassword returns the admin password from environment or default
func getAdminPassword() string {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123" // Default password for development
	}
	return password
}

// TriggerCrawl handles POST /admin/crawl: one crawl pass followed by a
// full rankings recompute.
func (h *AdminHandler) TriggerCrawl(c *gin.Context) {
	if h.indexerService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "No Moltbook client configured"})
		return
	}

	cfg := services.DefaultIndexerConfig()
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit value"})
			return
		}
		cfg.PostLimit = limit
	}

	indexed, err := h.indexerService.Crawl(cfg)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Crawl failed",
			"details": err.Error(),
		})
		return
	}

	updated, err := h.rankingService.RecomputeAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Crawl succeeded but ranking update failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Crawl completed",
		"agents_indexed":   indexed,
		"rankings_updated": updated,
	})
}

// TriggerRecalculate handles POST /admin/recalculate: recomputes every
// agent's ranking from the current snapshot.
func (h *AdminHandler) TriggerRecalculate(c *gin.Context) {
	updated, err := h.rankingService.RecomputeAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Recalculation failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Rankings updated",
		"rankings_updated": updated,
	})
}

// IssueClaimToken handles POST /admin/agents/:id/claim-token. The
// token lets the agent's owner edit its profile.
func (h *AdminHandler) IssueClaimToken(c *gin.Context) {
	agentID := c.Param("id")

	// Only issue tokens for agents that exist
	if _, err := h.rankingService.ScoreAgent(agentID); err != nil {
		if errors.Is(err, services.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to look up agent",
			"details": err.Error(),
		})
		return
	}

	token, err := h.claimIssuer.IssueToken(agentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to issue claim token",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"agent_id":   agentID,
		"token":      token,
		"expires_in": auth.DefaultTokenTTL.String(),
	})
}
