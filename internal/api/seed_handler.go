package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"workout-tracker/internal/seed"
)

// SeedHandler exposes the demo-data reseed as an admin endpoint. The route
// is gated by AdminKeyMiddleware; this handler only shapes the run.
type SeedHandler struct {
	runner *seed.Runner
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(runner *seed.Runner) *SeedHandler {
	return &SeedHandler{runner: runner}
}

// SeedRequest tunes a reseed run. All fields are optional.
type SeedRequest struct {
	Days   int    `json:"days" binding:"omitempty,min=1,max=365"`
	Tag    string `json:"tag"`
	Public *bool  `json:"public"`
}

// Reseed godoc
// @Summary Regenerate the demo data batch
// @Description Deletes the previous batch with the same tag, then inserts freshly generated history for the default personas.
// @Tags Admin
// @Accept json
// @Produce json
// @Param options body SeedRequest false "Run options"
// @Success 201 {object} gin.H "{inserted, removed, tag}"
// @Failure 403 {object} gin.H "Seeding disabled or bad admin key"
// @Router /api/admin/seed [post]
func (h *SeedHandler) Reseed(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	tag := req.Tag
	if tag == "" {
		tag = "demo"
	}
	public := true
	if req.Public != nil {
		public = *req.Public
	}

	inserted, removed, err := h.runner.Run(c.Request.Context(), seed.DefaultPersonas(), seed.Options{
		WindowDays: req.Days,
		Tag:        tag,
		Public:     public,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Seeding failed.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inserted": inserted, "removed": removed, "tag": tag})
}
