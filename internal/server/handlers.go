package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/christopherklint97/capplan/internal/capacity"
	"github.com/christopherklint97/capplan/internal/export"
	"github.com/christopherklint97/capplan/internal/schedule"
	"github.com/christopherklint97/capplan/internal/share"
	"github.com/christopherklint97/capplan/internal/store"
)

func owner(c *gin.Context) string {
	return c.GetString("ownerID")
}

// fail maps store and decoding errors to responses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
	case errors.Is(err, store.ErrInvalid), errors.Is(err, share.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// load fetches the schedule named by the :id parameter.
func (s *Server) load(c *gin.Context) (*store.Record, bool) {
	rec, err := s.store.Get(c.Request.Context(), owner(c), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return rec, true
}

// listHandler handles GET /api/schedules.
func (s *Server) listHandler(c *gin.Context) {
	recs, err := s.store.List(c.Request.Context(), owner(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

// createHandler handles POST /api/schedules.
func (s *Server) createHandler(c *gin.Context) {
	var body schedule.Schedule
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	rec, err := s.store.Create(c.Request.Context(), owner(c), body)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (s *Server) getHandler(c *gin.Context) {
	if rec, ok := s.load(c); ok {
		c.JSON(http.StatusOK, rec)
	}
}

// patchHandler handles PUT and PATCH /api/schedules/:id. Only the
// sub-documents present in the body are replaced.
func (s *Server) patchHandler(c *gin.Context) {
	var body store.Patch
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}
	rec, err := s.store.Patch(c.Request.Context(), owner(c), c.Param("id"), body)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) deleteHandler(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), owner(c), c.Param("id")); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// statsHandler handles GET /api/schedules/:id/stats?start=W1&end=W6.
// Missing bounds default to the first and last week.
func (s *Server) statsHandler(c *gin.Context) {
	rec, ok := s.load(c)
	if !ok {
		return
	}
	start, end := c.Query("start"), c.Query("end")
	if n := len(rec.Weeks); n > 0 {
		if start == "" {
			start = rec.Weeks[0].ID
		}
		if end == "" {
			end = rec.Weeks[n-1].ID
		}
	}
	c.JSON(http.StatusOK, capacity.RangeStats(rec.Schedule, start, end))
}

func (s *Server) teamHandler(c *gin.Context) {
	if rec, ok := s.load(c); ok {
		c.JSON(http.StatusOK, capacity.Team(rec.Schedule))
	}
}

type projectCapacityResponse struct {
	capacity.ProjectCapacity
	UtilizationPercent float64 `json:"utilizationPercent"`
}

func (s *Server) projectsHandler(c *gin.Context) {
	rec, ok := s.load(c)
	if !ok {
		return
	}
	pcs := capacity.ProjectCapacities(rec.Schedule)
	out := make([]projectCapacityResponse, len(pcs))
	for i, pc := range pcs {
		out[i] = projectCapacityResponse{ProjectCapacity: pc, UtilizationPercent: pc.Utilization()}
	}
	c.JSON(http.StatusOK, out)
}

type resizeRequest struct {
	NumberOfWeeks *int  `json:"numberOfWeeks"`
	Strict        *bool `json:"strict"`
}

// resizeHandler handles POST /api/schedules/:id/resize. The store resizes
// inside its own transaction.
func (s *Server) resizeHandler(c *gin.Context) {
	var body resizeRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.NumberOfWeeks == nil || *body.NumberOfWeeks < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "numberOfWeeks must be a non-negative integer"})
		return
	}
	strict := s.opts.StrictResize
	if body.Strict != nil {
		strict = *body.Strict
	}

	id := c.Param("id")
	updated, err := s.store.Resize(c.Request.Context(), owner(c), id, *body.NumberOfWeeks, schedule.ResizeOptions{Strict: strict})
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Info().Str("schedule_id", id).
		Int("weeks", len(updated.Weeks)).Bool("strict", strict).
		Msg("schedule resized")
	c.JSON(http.StatusOK, updated)
}

// csvHandler handles GET /api/schedules/:id/export.csv; ?table=projects
// switches to the project summary.
func (s *Server) csvHandler(c *gin.Context) {
	rec, ok := s.load(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	write := export.WriteTeamCSV
	if c.Query("table") == "projects" {
		write = export.WriteProjectsCSV
	}
	if err := write(&buf, rec.Schedule); err != nil {
		s.fail(c, err)
		return
	}
	filename := fmt.Sprintf("capacity-plan-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) calendarHandler(c *gin.Context) {
	rec, ok := s.load(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCalendar(&buf, rec.Schedule, time.Now()); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", buf.Bytes())
}

func (s *Server) shareHandler(c *gin.Context) {
	rec, ok := s.load(c)
	if !ok {
		return
	}
	link, err := share.Link(s.opts.ShareBaseURL, rec.Schedule)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": link})
}

// decodeShareHandler handles GET /api/share?data=... for the read-only
// view. No owner is needed: the link carries the whole document.
func (s *Server) decodeShareHandler(c *gin.Context) {
	sched, err := share.Decode(c.Query(share.DataParam))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule data"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"schedule": sched,
		"stats":    capacity.FullRangeStats(sched),
		"team":     capacity.Team(sched),
	})
}
