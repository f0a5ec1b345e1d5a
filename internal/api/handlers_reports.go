package api

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Artexxx/perf-tracker/internal/dto"
	"github.com/valyala/fasthttp"
)

// @Summary Composite report for an employee
// @Tags    Reports
// @Produce json
// @Param   employee_id path int true "employee id"
// @Success 200 {object} dto.EmployeeReport
// @Failure 404 {object} errorResponse "employee not found"
// @Failure 500 {object} errorResponse
// @Router  /reports/employees/{employee_id} [get]
func (s *Service) employeeReport(ctx *fasthttp.RequestCtx) {
	employeeID := pathID(ctx, "employee_id")
	if employeeID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrEmployeeIDRequired)
		return
	}

	report, err := s.reports.EmployeeDetail(ctx, employeeID)
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrEmployeeNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reports.EmployeeDetail: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, report)
}

// @Summary Composite report for a project
// @Tags    Reports
// @Produce json
// @Param   project_id path int true "project id"
// @Success 200 {object} dto.ProjectReport
// @Failure 404 {object} errorResponse "project not found"
// @Failure 500 {object} errorResponse
// @Router  /reports/projects/{project_id} [get]
func (s *Service) projectReport(ctx *fasthttp.RequestCtx) {
	projectID := pathID(ctx, "project_id")
	if projectID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrProjectIDRequired)
		return
	}

	report, err := s.reports.ProjectDetail(ctx, projectID)
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrProjectNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reports.ProjectDetail: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, report)
}

// @Summary Top performers ranked by average rating
// @Tags    Reports
// @Produce json
// @Param   limit query int false "max employees to return (default 5)"
// @Success 200 {array} dto.TopPerformer
// @Failure 500 {object} errorResponse
// @Router  /reports/top-performers [get]
func (s *Service) topPerformersReport(ctx *fasthttp.RequestCtx) {
	limit := 5
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	rows, err := s.reports.TopPerformers(ctx, limit)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reports.TopPerformers: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Reviews whose employee no longer exists in the relational store
// @Tags    Reports
// @Produce json
// @Success 200 {array} dto.PerformanceReview
// @Failure 500 {object} errorResponse
// @Router  /reports/orphaned-reviews [get]
func (s *Service) orphanedReviewsReport(ctx *fasthttp.RequestCtx) {
	rows, err := s.reports.OrphanedReviews(ctx)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reports.OrphanedReviews: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Liveness probe
// @Tags    Service
// @Produce json
// @Success 200 {object} okResponse
// @Router  /health [get]
func (s *Service) healthHandler(ctx *fasthttp.RequestCtx) {
	ok(ctx, "healthy")
}
