package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"alumni/internal/jobboard"
)

func kindParam(c *gin.Context) (jobboard.Kind, bool) {
	kind, ok := jobboard.ParseKind(c.Query("kind"))
	if !ok {
		fail(c, http.StatusBadRequest, jobboard.ErrInvalidKind.Error())
	}
	return kind, ok
}

// ListPostings lists live postings. With posted_by it lists that user's
// postings including expired ones.
func (h *Handler) ListPostings(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	f := jobboard.Filter{
		Kind:     kind,
		Company:  c.Query("company"),
		JobArea:  c.Query("job_area"),
		Skill:    c.Query("skill"),
		Location: c.Query("location"),
		PostedBy: c.Query("posted_by"),
	}
	f.IncludeExpired = f.PostedBy != ""
	postings, err := h.jobs.List(c.Request.Context(), f)
	if err != nil {
		h.internal(c, err, "failed to list postings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "postings": postings})
}

func (h *Handler) CreatePosting(c *gin.Context) {
	var p jobboard.Posting
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	saved, err := h.jobs.Post(c.Request.Context(), p)
	if err != nil {
		var ve *jobboard.ValidationError
		switch {
		case errors.As(err, &ve),
			errors.Is(err, jobboard.ErrDeadlinePassed),
			errors.Is(err, jobboard.ErrInvalidDate),
			errors.Is(err, jobboard.ErrInvalidKind):
			fail(c, http.StatusBadRequest, err.Error())
		default:
			h.internal(c, err, "failed to create posting")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Posting created", "posting": saved})
}

// DeletePosting takes the caller's id from the user_id query parameter or JSON body.
func (h *Handler) DeletePosting(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		var body struct {
			UserID string `json:"user_id"`
		}
		_ = c.ShouldBindJSON(&body)
		userID = body.UserID
	}
	err := h.jobs.Delete(c.Request.Context(), c.Param("id"), userID)
	switch {
	case errors.Is(err, jobboard.ErrUserRequired):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, jobboard.ErrNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, jobboard.ErrForbidden):
		fail(c, http.StatusForbidden, err.Error())
	case err != nil:
		h.internal(c, err, "failed to delete posting")
	default:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Posting deleted"})
	}
}

func (h *Handler) Facets(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	values, err := h.jobs.Facets(c.Request.Context(), kind, c.Param("field"))
	if errors.Is(err, jobboard.ErrUnknownFacet) {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.internal(c, err, "failed to load facets")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "values": values})
}

func (h *Handler) ForYou(c *gin.Context) {
	kind, ok := kindParam(c)
	if !ok {
		return
	}
	userID := c.Query("user_id")
	if userID == "" {
		fail(c, http.StatusBadRequest, jobboard.ErrUserRequired.Error())
		return
	}
	pref, err := h.prefs.Get(c.Request.Context(), userID)
	if err != nil {
		h.internal(c, err, "failed to load preferences")
		return
	}
	scored, err := h.jobs.ForYou(c.Request.Context(), kind, pref)
	if err != nil {
		h.internal(c, err, "failed to rank postings")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "has_preferences": !pref.Empty(), "postings": scored})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	pref, err := h.prefs.Get(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		h.internal(c, err, "failed to load preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "preferences": pref})
}

func (h *Handler) PutPreferences(c *gin.Context) {
	var pref jobboard.Preferences
	if err := c.ShouldBindJSON(&pref); err != nil {
		fail(c, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.prefs.Put(c.Request.Context(), c.Param("user_id"), pref); err != nil {
		h.internal(c, err, "failed to save preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "preferences": pref.Clean()})
}

func (h *Handler) DeletePreferences(c *gin.Context) {
	if err := h.prefs.Delete(c.Request.Context(), c.Param("user_id")); err != nil {
		h.internal(c, err, "failed to clear preferences")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Preferences cleared"})
}
