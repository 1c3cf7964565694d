package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"workout-tracker/internal/domain"
	"workout-tracker/internal/service"
)

// SessionHandler holds the session service dependency.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateSessionRequest defines the expected JSON for creating a session.
// UserID is optional; when present it must match the resolved caller.
type CreateSessionRequest struct {
	Name     string     `json:"name" binding:"required,max=100"`
	Date     *time.Time `json:"date"`
	UserID   string     `json:"userId"`
	UserName string     `json:"userName"`
	IsPublic *bool      `json:"isPublic"`
}

// ExerciseRequest defines the expected JSON for appending an exercise.
type ExerciseRequest struct {
	Title  string  `json:"title" binding:"required,max=100"`
	Sets   int     `json:"sets" binding:"required,min=1,max=50"`
	Reps   int     `json:"reps" binding:"required,min=1,max=1000"`
	Weight float64 `json:"weight" binding:"min=0,max=2000"`
}

// ExercisePatchRequest carries a partial exercise update; absent fields
// keep their values.
type ExercisePatchRequest struct {
	Title  *string  `json:"title"`
	Sets   *int     `json:"sets"`
	Reps   *int     `json:"reps"`
	Weight *float64 `json:"weight"`
}

// SessionResponse is the DTO for returning session details.
type SessionResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Date      time.Time         `json:"date"`
	UserID    string            `json:"userId,omitempty"`
	UserName  string            `json:"userName,omitempty"`
	IsPublic  bool              `json:"isPublic"`
	Exercises []domain.Exercise `json:"exercises"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// MapSessionToResponse converts a domain.Session to SessionResponse DTO.
func MapSessionToResponse(s *domain.Session) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	exercises := s.Exercises
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return SessionResponse{
		ID:        s.ID.Hex(),
		Name:      s.Name,
		Date:      s.Date,
		UserID:    s.UserID,
		UserName:  s.UserName,
		IsPublic:  s.IsPublic,
		Exercises: exercises,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// MapSessionsToResponse converts a slice of domain.Session to DTOs.
func MapSessionsToResponse(sessions []domain.Session) []SessionResponse {
	responses := make([]SessionResponse, len(sessions))
	for i := range sessions {
		responses[i] = MapSessionToResponse(&sessions[i])
	}
	return responses
}

// --- Handler Methods ---

// ListSessions godoc
// @Summary List visible sessions
// @Description Public feed, plus the viewer's own private sessions when userId is supplied. Descending by date; paginate with before=<oldest date of previous page>.
// @Tags Sessions
// @Produce json
// @Param userId query string false "Viewer user id"
// @Param before query string false "Only sessions dated strictly before this timestamp (RFC 3339 or YYYY-MM-DD)"
// @Param limit query int false "Page size, default 10, max 50"
// @Success 200 {array} SessionResponse
// @Failure 400 {object} gin.H "Malformed before/limit"
// @Router /api/sessions [get]
func (h *SessionHandler) ListSessions(c *gin.Context) {
	viewerID := c.Query("userId")

	var before *time.Time
	if raw := c.Query("before"); raw != "" {
		t, err := parseBefore(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid before timestamp")
			return
		}
		before = &t
	}

	var limit int64
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	sessions, err := h.sessionService.List(c.Request.Context(), viewerID, before, limit)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list sessions.")
		return
	}
	c.JSON(http.StatusOK, MapSessionsToResponse(sessions))
}

// CreateSession godoc
// @Summary Create a workout session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param session body CreateSessionRequest true "Session details"
// @Success 201 {object} SessionResponse
// @Failure 400 {object} gin.H "Validation error"
// @Failure 401 {object} gin.H "Unauthenticated"
// @Failure 403 {object} gin.H "Body userId does not match caller"
// @Router /api/sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}
	// A payload claiming a different owner than the transport identity is
	// a spoof attempt, not a validation slip.
	if req.UserID != "" && req.UserID != callerID {
		abortWithError(c, http.StatusForbidden, "userId does not match authenticated user")
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), callerID, service.CreateSessionInput{
		Name:     req.Name,
		Date:     req.Date,
		UserName: req.UserName,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidationFailed) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create session.")
		}
		return
	}
	c.JSON(http.StatusCreated, MapSessionToResponse(session))
}

// DeleteSession godoc
// @Summary Delete an owned session
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session id"
// @Success 200 {object} gin.H "{ok, deletedId}"
// @Failure 403 {object} gin.H "Not owner"
// @Failure 404 {object} gin.H "No such session"
// @Router /api/sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), callerID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deletedId": id.Hex()})
}

// AddExercise godoc
// @Summary Append an exercise to an owned session
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session id"
// @Param exercise body ExerciseRequest true "Exercise fields"
// @Success 200 {object} SessionResponse "Updated session"
// @Failure 400 {object} gin.H "Validation error"
// @Failure 403 {object} gin.H "Not owner"
// @Failure 404 {object} gin.H "No such session"
// @Router /api/sessions/{id}/exercise [post]
func (h *SessionHandler) AddExercise(c *gin.Context) {
	var req ExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}

	session, err := h.sessionService.AddExercise(c.Request.Context(), callerID, id, domain.Exercise{
		Title:  req.Title,
		Sets:   req.Sets,
		Reps:   req.Reps,
		Weight: req.Weight,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// RemoveExercise godoc
// @Summary Remove the exercise at an index from an owned session
// @Description Later exercises shift down one position.
// @Tags Sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session id"
// @Param idx path int true "Zero-based exercise index"
// @Success 200 {object} SessionResponse "Updated session"
// @Failure 400 {object} gin.H "Index out of range"
// @Failure 403 {object} gin.H "Not owner"
// @Failure 404 {object} gin.H "No such session"
// @Router /api/sessions/{id}/exercise/{idx} [delete]
func (h *SessionHandler) RemoveExercise(c *gin.Context) {
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}

	session, err := h.sessionService.RemoveExercise(c.Request.Context(), callerID, id, index)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// UpdateExercise godoc
// @Summary Patch the exercise at an index in an owned session
// @Description Only fields present in the body are applied; sets/reps are clamped to a minimum of 1. Responds with the whole updated session.
// @Tags Sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session id"
// @Param idx path int true "Zero-based exercise index"
// @Param exercise body ExercisePatchRequest true "Fields to change"
// @Success 200 {object} SessionResponse "Updated session"
// @Failure 400 {object} gin.H "Index out of range or validation error"
// @Failure 403 {object} gin.H "Not owner"
// @Failure 404 {object} gin.H "No such session"
// @Router /api/sessions/{id}/exercise/{idx} [patch]
func (h *SessionHandler) UpdateExercise(c *gin.Context) {
	var req ExercisePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	callerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller.")
		return
	}
	id, ok := sessionIDParam(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}

	session, err := h.sessionService.UpdateExercise(c.Request.Context(), callerID, id, index, service.ExercisePatch{
		Title:  req.Title,
		Sets:   req.Sets,
		Reps:   req.Reps,
		Weight: req.Weight,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// --- Helpers ---

// sessionIDParam parses the :id path segment. A malformed id cannot name a
// document, so it is reported as not-found.
func sessionIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, "Session not found")
		return primitive.NilObjectID, false
	}
	return id, true
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("idx"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise index")
		return 0, false
	}
	return index, true
}

// parseBefore accepts RFC 3339 timestamps or bare dates.
func parseBefore(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// writeServiceError maps service errors onto the response taxonomy.
func (h *SessionHandler) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		abortWithError(c, http.StatusNotFound, "Session not found")
	case errors.Is(err, service.ErrNotOwner):
		abortWithError(c, http.StatusForbidden, "Not owner")
	case errors.Is(err, service.ErrInvalidIndex):
		abortWithError(c, http.StatusBadRequest, "Invalid exercise index")
	case errors.Is(err, service.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Internal error")
	}
}
