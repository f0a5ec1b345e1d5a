package api

import (
	"encoding/json"
	"errors"

	"github.com/Artexxx/perf-tracker/internal/review"
	"github.com/valyala/fasthttp"
)

var (
	ErrEmployeeIDRequired = errors.New("path parameter 'employee_id' must be a positive integer")
	ErrProjectIDRequired  = errors.New("path parameter 'project_id' must be a positive integer")
	ErrReviewIDRequired   = errors.New("path parameter 'review_id' must be a positive integer")

	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrReviewNotFound     = errors.New("review not found")
	ErrAssignmentNotFound = errors.New("assignment not found")

	ErrEmailAlreadyExists       = errors.New("employee with this email already exists")
	ErrProjectAlreadyExists     = errors.New("project with this name already exists")
	ErrEmployeeAlreadyAssigned  = errors.New("employee is already assigned to this project")
	ErrNoFieldsToUpdate         = errors.New("no fields provided for update")
	ErrAssignmentTargetNotFound = errors.New("employee or project not found")
)

type okResponse struct {
	Status string `json:"status" example:"ok"`
	Msg    string `json:"msg" example:"done"`
}

type idResponse struct {
	Status string `json:"status" example:"ok"`
	ID     int64  `json:"id" example:"1"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type validationResponse struct {
	Code   string                  `json:"code" example:"VALIDATION_ERROR"`
	Errors review.ValidationErrors `json:"errors"`
}

func writeJSON(ctx *fasthttp.RequestCtx, statusCode int, body any) {
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.SetStatusCode(statusCode)

	_ = json.NewEncoder(ctx).Encode(body)
}

func ok(ctx *fasthttp.RequestCtx, msg string) {
	writeJSON(ctx, fasthttp.StatusOK, okResponse{Status: "ok", Msg: msg})
}

func okID(ctx *fasthttp.RequestCtx, id int64) {
	writeJSON(ctx, fasthttp.StatusOK, idResponse{Status: "ok", ID: id})
}

func writeError(ctx *fasthttp.RequestCtx, httpStatus int, err error) {
	writeJSON(ctx, httpStatus, errorResponse{Code: fasthttp.StatusMessage(httpStatus), Message: err.Error()})
}

func writeValidationErrors(ctx *fasthttp.RequestCtx, errs review.ValidationErrors) {
	writeJSON(ctx, fasthttp.StatusBadRequest, validationResponse{Code: "VALIDATION_ERROR", Errors: errs})
}
