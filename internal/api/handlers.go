package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"gospc/domain/core"
	"gospc/domain/dataset"
	"gospc/domain/run"
	"gospc/internal/errors"
	"gospc/ports"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"store":  s.svc.HasStore(),
	})
}

func (s *Server) capability(c *gin.Context) {
	s.runTable(c, s.svc.Capability)
}

func (s *Server) hypothesis(c *gin.Context) {
	s.runTable(c, s.svc.Hypothesis)
}

func (s *Server) battery(c *gin.Context) {
	s.runTable(c, func(ctx context.Context, t *dataset.Table) (*run.Run, error) {
		return s.svc.Battery(ctx, t, nil)
	})
}

func (s *Server) runTable(c *gin.Context, analyse func(ctx context.Context, t *dataset.Table) (*run.Run, error)) {
	var req TableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	table, err := req.ToTable()
	if err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	r, err := analyse(c.Request.Context(), table)
	if err != nil {
		s.respondError(c, err)
		return
	}
	recordRun(r)
	c.JSON(http.StatusOK, r)
}

func (s *Server) gage(c *gin.Context) {
	var req GageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}
	cube, err := req.ToCube()
	if err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}

	source := req.Source
	if source == "" {
		source = "api"
	}
	r, err := s.svc.Gage(c.Request.Context(), source, cube)
	if err != nil {
		s.respondError(c, err)
		return
	}
	recordRun(r)
	c.JSON(http.StatusOK, r)
}

func (s *Server) specs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"alpha":              s.svc.Options().Alpha,
		"policy":             s.svc.Options().Policy,
		"group_column":       s.svc.Options().GroupColumn,
		"hypothesis_metrics": s.svc.Options().HypothesisMetrics,
		"specifications":     s.svc.Catalog(),
	})
}

func (s *Server) listRuns(c *gin.Context) {
	var q struct {
		Kind   string `form:"kind" binding:"omitempty,oneof=capability gage hypothesis battery"`
		Source string `form:"source"`
		Limit  int    `form:"limit" binding:"omitempty,min=1,max=500"`
		Offset int    `form:"offset" binding:"omitempty,min=0"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		s.respondError(c, errors.InvalidInput(err.Error()))
		return
	}

	filters := ports.RunFilters{Source: q.Source, Limit: q.Limit, Offset: q.Offset}
	if filters.Limit == 0 {
		filters.Limit = 50
	}
	if q.Kind != "" {
		kind := core.RunKind(q.Kind)
		filters.Kind = &kind
	}

	runs, err := s.svc.ListRuns(c.Request.Context(), filters)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) getRun(c *gin.Context) {
	id, err := core.ParseRunID(c.Param("id"))
	if err != nil {
		s.respondError(c, errors.WithCode(errors.CodeInvalidInput, err))
		return
	}
	r, err := s.svc.GetRun(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	} else {
		s.logger.Debug("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}
