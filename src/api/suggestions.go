package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/tlou-esports/te-suggestions/src/suggestions"
)

type Suggestions struct {
	src       SuggestionSource
	sanitizer *bluemonday.Policy
}

func (s Suggestions) clean(rec *suggestions.Record) *suggestions.Record {
	rec.Content = s.sanitizer.Sanitize(rec.Content)
	if rec.StaffResponse != nil {
		resp := s.sanitizer.Sanitize(*rec.StaffResponse)
		rec.StaffResponse = &resp
	}
	return rec
}

// List serves GET /v1/suggestions[?status=].
func (s Suggestions) List(c *gin.Context) {
	status := suggestions.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"err": "unknown status"})
		return
	}
	recs, err := s.src.List(c.Request.Context(), status)
	if err != nil {
		internalError(c, err)
		return
	}
	for _, rec := range recs {
		s.clean(rec)
	}
	writeCached(c, recs)
}

// Get serves GET /v1/suggestions/:id.
func (s Suggestions) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad suggestion id"})
		return
	}
	rec, err := s.src.Get(c.Request.Context(), id)
	if errors.Is(err, suggestions.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"err": "suggestion not found"})
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}
	writeCached(c, s.clean(rec))
}
