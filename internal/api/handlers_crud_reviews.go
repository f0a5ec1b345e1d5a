package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Artexxx/perf-tracker/internal/dto"
	"github.com/Artexxx/perf-tracker/internal/review"
	"github.com/valyala/fasthttp"
)

type reviewSubmissionReq struct {
	EmployeeID          int64          `json:"employee_id" example:"101"`
	ReviewerName        string         `json:"reviewer_name" example:"Anna Ivanova"`
	OverallRating       float64        `json:"overall_rating" example:"4.5"`
	ReviewDate          string         `json:"review_date" example:"2024-01-01"` // YYYY-MM-DD, defaults to today
	Strengths           any            `json:"strengths,omitempty"`              // string or list of strings
	AreasForImprovement any            `json:"areas_for_improvement,omitempty"`  // string or list of strings
	Comments            string         `json:"comments,omitempty"`
	GoalsForNextPeriod  any            `json:"goals_for_next_period,omitempty"` // string or list of strings
	Extra               map[string]any `json:"extra,omitempty"`                 // arbitrary additional fields
}

// @Summary Submit a performance review
// @Tags    CRUD-Reviews
// @Accept  json
// @Produce json
// @Param   request body reviewSubmissionReq true "Review"
// @Success 200 {object} idResponse "assigned review_id"
// @Failure 400 {object} validationResponse "field-indexed validation errors"
// @Failure 500 {object} errorResponse
// @Router  /reviews [post]
func (s *Service) submitReview(ctx *fasthttp.RequestCtx) {
	var req reviewSubmissionReq

	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	if req.ReviewDate == "" {
		req.ReviewDate = time.Now().Format(review.DateLayout)
	}

	errs, err := s.reviewValidator.ValidateSubmission(ctx, review.Submission{
		EmployeeID:          req.EmployeeID,
		ReviewerName:        req.ReviewerName,
		OverallRating:       req.OverallRating,
		ReviewDate:          req.ReviewDate,
		Strengths:           req.Strengths,
		AreasForImprovement: req.AreasForImprovement,
		Comments:            req.Comments,
		GoalsForNextPeriod:  req.GoalsForNextPeriod,
		Extra:               req.Extra,
	})
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reviewValidator.ValidateSubmission: %w", err))
		return
	}
	if len(errs) > 0 {
		writeValidationErrors(ctx, errs)
		return
	}

	doc := dto.PerformanceReview{
		EmployeeID:          req.EmployeeID,
		ReviewerName:        strings.TrimSpace(req.ReviewerName),
		OverallRating:       req.OverallRating,
		ReviewDate:          req.ReviewDate,
		CreatedAt:           time.Now().Format(time.RFC3339),
		Strengths:           trimText(req.Strengths),
		AreasForImprovement: trimText(req.AreasForImprovement),
		Comments:            strings.TrimSpace(req.Comments),
		GoalsForNextPeriod:  trimText(req.GoalsForNextPeriod),
		Extra:               req.Extra,
	}

	id, err := s.reviews.Submit(ctx, doc)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reviewsRepository.Submit: %w", err))
		return
	}

	okID(ctx, id)
}

// @Summary Reviews for an employee, most recent first
// @Tags    CRUD-Reviews
// @Produce json
// @Param   employee_id path int true "employee id"
// @Success 200 {array} dto.PerformanceReview
// @Failure 500 {object} errorResponse
// @Router  /employees/{employee_id}/reviews [get]
func (s *Service) listEmployeeReviews(ctx *fasthttp.RequestCtx) {
	employeeID := pathID(ctx, "employee_id")
	if employeeID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrEmployeeIDRequired)
		return
	}

	rows, err := s.reviews.ForEmployee(ctx, employeeID)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reviewsRepository.ForEmployee: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Average rating for an employee
// @Tags    CRUD-Reviews
// @Produce json
// @Param   employee_id path int true "employee id"
// @Success 200 {object} dto.RatingSummary
// @Failure 404 {object} errorResponse "no reviews for employee"
// @Failure 500 {object} errorResponse
// @Router  /employees/{employee_id}/rating [get]
func (s *Service) getEmployeeRating(ctx *fasthttp.RequestCtx) {
	employeeID := pathID(ctx, "employee_id")
	if employeeID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrEmployeeIDRequired)
		return
	}

	summary, err := s.reviews.AverageRating(ctx, employeeID)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reviewsRepository.AverageRating: %w", err))
		return
	}
	if summary == nil {
		writeError(ctx, fasthttp.StatusNotFound, ErrReviewNotFound)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, summary)
}

// @Summary Reviews within a date range
// @Tags    CRUD-Reviews
// @Produce json
// @Param   start_date query string true "YYYY-MM-DD"
// @Param   end_date   query string true "YYYY-MM-DD"
// @Success 200 {array} dto.PerformanceReview
// @Failure 400 {object} errorResponse "invalid date"
// @Failure 500 {object} errorResponse
// @Router  /reviews [get]
func (s *Service) listReviewsByDateRange(ctx *fasthttp.RequestCtx) {
	startDate := string(ctx.QueryArgs().Peek("start_date"))
	endDate := string(ctx.QueryArgs().Peek("end_date"))

	if msg := checkDate("start_date", startDate); msg != "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New(msg))
		return
	}

	if msg := checkDate("end_date", endDate); msg != "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New(msg))
		return
	}

	rows, err := s.reports.ReviewsByDateRange(ctx, startDate, endDate)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reports.ReviewsByDateRange: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Most recent reviews across all employees
// @Tags    CRUD-Reviews
// @Produce json
// @Param   limit query int false "max reviews to return (default 5)"
// @Success 200 {array} dto.PerformanceReview
// @Failure 500 {object} errorResponse
// @Router  /reviews/recent [get]
func (s *Service) listRecentReviews(ctx *fasthttp.RequestCtx) {
	limit := int64(5)
	if raw := string(ctx.QueryArgs().Peek("limit")); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	rows, err := s.reviews.Recent(ctx, limit)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reviewsRepository.Recent: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Reviews conducted by a reviewer (case-insensitive substring)
// @Tags    CRUD-Reviews
// @Produce json
// @Param   name query string true "reviewer name"
// @Success 200 {array} dto.PerformanceReview
// @Failure 400 {object} errorResponse "name required"
// @Failure 500 {object} errorResponse
// @Router  /reviews/by-reviewer [get]
func (s *Service) listReviewsByReviewer(ctx *fasthttp.RequestCtx) {
	name := strings.TrimSpace(string(ctx.QueryArgs().Peek("name")))
	if name == "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New("required query parameter 'name'"))
		return
	}

	rows, err := s.reviews.ByReviewer(ctx, name)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reviewsRepository.ByReviewer: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Update review fields
// @Tags    CRUD-Reviews
// @Accept  json
// @Produce json
// @Param   review_id path int true "review id"
// @Param   request body map[string]any true "fields to set"
// @Success 200 {object} okResponse
// @Failure 400 {object} validationResponse "field-indexed validation errors"
// @Failure 404 {object} errorResponse "review not found"
// @Failure 500 {object} errorResponse
// @Router  /reviews/{review_id} [put]
func (s *Service) updateReview(ctx *fasthttp.RequestCtx) {
	reviewID := pathID(ctx, "review_id")
	if reviewID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrReviewIDRequired)
		return
	}

	var fields map[string]any
	if err := json.Unmarshal(ctx.PostBody(), &fields); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	if len(fields) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrNoFieldsToUpdate)
		return
	}

	errs, err := s.reviewValidator.ValidateUpdate(ctx, fields)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reviewValidator.ValidateUpdate: %w", err))
		return
	}
	if len(errs) > 0 {
		writeValidationErrors(ctx, errs)
		return
	}

	for key, value := range fields {
		if str, ok := value.(string); ok {
			fields[key] = strings.TrimSpace(str)
		}
	}

	if err := s.reviews.Update(ctx, reviewID, fields); err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrReviewNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reviewsRepository.Update: %w", err))
		return
	}

	ok(ctx, "review updated")
}

// @Summary Delete a review
// @Tags    CRUD-Reviews
// @Produce json
// @Param   review_id path int true "review id"
// @Success 200 {object} okResponse
// @Failure 404 {object} errorResponse "review not found"
// @Failure 500 {object} errorResponse
// @Router  /reviews/{review_id} [delete]
func (s *Service) deleteReview(ctx *fasthttp.RequestCtx) {
	reviewID := pathID(ctx, "review_id")
	if reviewID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrReviewIDRequired)
		return
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrReviewNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("reviewsRepository.Delete: %w", err))
		return
	}

	ok(ctx, "review deleted")
}

// trimText trims string free-text values; lists pass through untouched and
// are normalized during aggregation instead.
func trimText(value any) any {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}

	return value
}
