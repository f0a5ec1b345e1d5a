package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Artexxx/perf-tracker/internal/dto"
	"github.com/valyala/fasthttp"
)

type assignmentReq struct {
	EmployeeID int64  `json:"employee_id" example:"101"`
	ProjectID  int64  `json:"project_id" example:"7"`
	Role       string `json:"role" example:"Developer"`
}

// @Summary Create a project
// @Tags    CRUD-Projects
// @Accept  json
// @Produce json
// @Param   request body dto.Project true "Project"
// @Success 200 {object} idResponse
// @Failure 400 {object} errorResponse "validation error"
// @Failure 409 {object} errorResponse "project name already exists"
// @Failure 500 {object} errorResponse
// @Router  /projects [post]
func (s *Service) createProject(ctx *fasthttp.RequestCtx) {
	var req dto.Project

	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	if req.Status == "" {
		req.Status = dto.StatusPlanning
	}

	if msg := validateProject(req); msg != "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New(msg))
		return
	}

	id, err := s.projects.Create(ctx, req)
	if err != nil {
		if errors.Is(err, dto.ErrAlreadyExists) {
			writeError(ctx, fasthttp.StatusConflict, ErrProjectAlreadyExists)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("projectsRepository.Create: %w", err))
		return
	}

	okID(ctx, id)
}

// @Summary List projects, optionally filtered by name or status
// @Tags    CRUD-Projects
// @Produce json
// @Param   name   query string false "substring match on project name"
// @Param   status query string false "exact status match"
// @Success 200 {array} dto.Project
// @Failure 500 {object} errorResponse
// @Router  /projects [get]
func (s *Service) listProjects(ctx *fasthttp.RequestCtx) {
	var (
		rows []dto.Project
		err  error
	)

	name := string(ctx.QueryArgs().Peek("name"))
	status := string(ctx.QueryArgs().Peek("status"))

	switch {
	case name != "":
		rows, err = s.projects.SearchByName(ctx, name)
	case status != "":
		rows, err = s.projects.ByStatus(ctx, status)
	default:
		rows, err = s.projects.List(ctx)
	}

	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("projectsRepository list: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Project counts per status
// @Tags    CRUD-Projects
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 500 {object} errorResponse
// @Router  /projects/status-counts [get]
func (s *Service) projectStatusCounts(ctx *fasthttp.RequestCtx) {
	counts, err := s.projects.CountByStatus(ctx)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("projectsRepository.CountByStatus: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, counts)
}

// @Summary Get a project by id
// @Tags    CRUD-Projects
// @Produce json
// @Param   project_id path int true "project id"
// @Success 200 {object} dto.Project
// @Failure 404 {object} errorResponse "project not found"
// @Failure 500 {object} errorResponse
// @Router  /projects/{project_id} [get]
func (s *Service) getProject(ctx *fasthttp.RequestCtx) {
	projectID := pathID(ctx, "project_id")
	if projectID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrProjectIDRequired)
		return
	}

	row, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrProjectNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("projectsRepository.GetByID: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, row)
}

// @Summary Update a project
// @Tags    CRUD-Projects
// @Accept  json
// @Produce json
// @Param   project_id path int true "project id"
// @Param   request body dto.Project true "Project"
// @Success 200 {object} okResponse
// @Failure 400 {object} errorResponse "validation error"
// @Failure 404 {object} errorResponse "project not found"
// @Failure 409 {object} errorResponse "project name already exists"
// @Failure 500 {object} errorResponse
// @Router  /projects/{project_id} [put]
func (s *Service) updateProject(ctx *fasthttp.RequestCtx) {
	projectID := pathID(ctx, "project_id")
	if projectID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrProjectIDRequired)
		return
	}

	var req dto.Project
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	req.ProjectID = projectID

	if msg := validateProject(req); msg != "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New(msg))
		return
	}

	if err := s.projects.Update(ctx, req); err != nil {
		switch {
		case errors.Is(err, dto.ErrNotFound):
			writeError(ctx, fasthttp.StatusNotFound, ErrProjectNotFound)
		case errors.Is(err, dto.ErrAlreadyExists):
			writeError(ctx, fasthttp.StatusConflict, ErrProjectAlreadyExists)
		default:
			writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("projectsRepository.Update: %w", err))
		}
		return
	}

	ok(ctx, "project updated")
}

// @Summary Delete a project
// @Tags    CRUD-Projects
// @Produce json
// @Param   project_id path int true "project id"
// @Success 200 {object} okResponse
// @Failure 404 {object} errorResponse "project not found"
// @Failure 500 {object} errorResponse
// @Router  /projects/{project_id} [delete]
func (s *Service) deleteProject(ctx *fasthttp.RequestCtx) {
	projectID := pathID(ctx, "project_id")
	if projectID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrProjectIDRequired)
		return
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrProjectNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("projectsRepository.Delete: %w", err))
		return
	}

	ok(ctx, "project deleted")
}

// @Summary Employees assigned to a project
// @Tags    CRUD-Projects
// @Produce json
// @Param   project_id path int true "project id"
// @Success 200 {array} dto.ProjectEmployee
// @Failure 500 {object} errorResponse
// @Router  /projects/{project_id}/employees [get]
func (s *Service) listProjectEmployees(ctx *fasthttp.RequestCtx) {
	projectID := pathID(ctx, "project_id")
	if projectID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrProjectIDRequired)
		return
	}

	rows, err := s.projects.EmployeesForProject(ctx, projectID)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("projectsRepository.EmployeesForProject: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Assign an employee to a project
// @Tags    CRUD-Projects
// @Accept  json
// @Produce json
// @Param   request body assignmentReq true "Assignment"
// @Success 200 {object} idResponse
// @Failure 400 {object} errorResponse "validation error"
// @Failure 404 {object} errorResponse "employee or project not found"
// @Failure 409 {object} errorResponse "employee already assigned"
// @Failure 500 {object} errorResponse
// @Router  /assignments [post]
func (s *Service) createAssignment(ctx *fasthttp.RequestCtx) {
	var req assignmentReq

	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	if req.EmployeeID <= 0 {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New("required field 'employee_id'"))
		return
	}

	if req.ProjectID <= 0 {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New("required field 'project_id'"))
		return
	}

	if msg := validateRole(req.Role); msg != "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New(msg))
		return
	}

	id, err := s.projects.Assign(ctx, req.EmployeeID, req.ProjectID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, dto.ErrAlreadyExists):
			writeError(ctx, fasthttp.StatusConflict, ErrEmployeeAlreadyAssigned)
		case errors.Is(err, dto.ErrNotFound):
			writeError(ctx, fasthttp.StatusNotFound, ErrAssignmentTargetNotFound)
		default:
			writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("projectsRepository.Assign: %w", err))
		}
		return
	}

	okID(ctx, id)
}

// @Summary Unassign an employee from a project
// @Tags    CRUD-Projects
// @Produce json
// @Param   project_id  path int true "project id"
// @Param   employee_id path int true "employee id"
// @Success 200 {object} okResponse
// @Failure 404 {object} errorResponse "assignment not found"
// @Failure 500 {object} errorResponse
// @Router  /projects/{project_id}/assignments/{employee_id} [delete]
func (s *Service) deleteAssignment(ctx *fasthttp.RequestCtx) {
	projectID := pathID(ctx, "project_id")
	if projectID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrProjectIDRequired)
		return
	}

	employeeID := pathID(ctx, "employee_id")
	if employeeID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrEmployeeIDRequired)
		return
	}

	if err := s.projects.Unassign(ctx, employeeID, projectID); err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrAssignmentNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("projectsRepository.Unassign: %w", err))
		return
	}

	ok(ctx, "assignment removed")
}
