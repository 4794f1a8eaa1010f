package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"agent-ranker/internal/auth"
	"agent-ranker/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AgentsHandler handles the public agent API
type AgentsHandler struct {
	agentsService  *services.AgentsService
	rankingService *services.RankingService
	claimIssuer    *auth.ClaimIssuer
}

// NewAgentsHandler creates a new agents handler
func NewAgentsHandler(db *gorm.DB, claimIssuer *auth.ClaimIssuer) *AgentsHandler {
	return &AgentsHandler{
		agentsService:  services.NewAgentsService(db),
		rankingService: services.NewRankingService(db),
		claimIssuer:    claimIssuer,
	}
}

// HealthCheck handles GET /health
func (h *AgentsHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// GetTopAgents handles GET /agents/top
func (h *AgentsHandler) GetTopAgents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	opts := services.TopAgentsOptions{
		Category: c.Query("category"),
		Submolt:  c.Query("submolt"),
		SortBy:   c.DefaultQuery("sort_by", "karma"),
		Limit:    limit,
	}

	if v := c.Query("min_karma"); v != "" {
		minKarma, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_karma value"})
			return
		}
		opts.MinKarma = &minKarma
	}
	if v := c.Query("is_verified"); v != "" {
		verified := v == "true" || v == "1"
		opts.IsVerified = &verified
	}
	if v := c.Query("is_claimed"); v != "" {
		claimed := v == "true" || v == "1"
		opts.IsClaimed = &claimed
	}

	agents, err := h.agentsService.TopAgents(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve top agents",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, agents)
}

// GetAgent handles GET /agents/:id
func (h *AgentsHandler) GetAgent(c *gin.Context) {
	agent, err := h.agentsService.GetAgent(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve agent",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, agent)
}

// SearchAgents handles GET /search
func (h *AgentsHandler) SearchAgents(c *gin.Context) {
	query := c.Query("q")
	if len(query) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query must be at least 2 characters"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	results, err := h.agentsService.SearchAgents(query, c.Query("category"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Search failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

// GetCategories handles GET /categories
func (h *AgentsHandler) GetCategories(c *gin.Context) {
	categories, err := h.agentsService.Categories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve categories",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetStats handles GET /stats
func (h *AgentsHandler) GetStats(c *gin.Context) {
	stats, err := h.agentsService.GetStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve stats",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportAgents handles GET /export/agents.json — the public bulk
// export of all agent rankings.
func (h *AgentsHandler) ExportAgents(c *gin.Context) {
	agents, err := h.agentsService.Export()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Export failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exported_at":    time.Now().UTC(),
		"total_agents":   len(agents),
		"schema_version": "1.0",
		"agents":         agents,
	})
}

// profileUpdateRequest is the owner-editable slice of an agent profile.
type profileUpdateRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
}

// UpdateProfile handles PUT /agents/:id/profile. The caller must
// present a claim token issued for the same agent.
func (h *AgentsHandler) UpdateProfile(c *gin.Context) {
	agentID := c.Param("id")

	tokenAgentID, err := h.claimIssuer.VerifyToken(c.GetHeader("Authorization"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing claim token"})
		return
	}
	if tokenAgentID != agentID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Token was issued for a different agent"})
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.agentsService.UpdateProfile(agentID, req.DisplayName, req.Bio); err != nil {
		if errors.Is(err, services.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update profile",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}
