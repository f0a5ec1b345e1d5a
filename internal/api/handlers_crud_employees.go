package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Artexxx/perf-tracker/internal/dto"
	"github.com/valyala/fasthttp"
)

type updateEmployeeReq struct {
	Field string `json:"field" example:"department"` // one of: first_name, last_name, email, hire_date, department
	Value string `json:"value" example:"Platform"`
}

// @Summary Create an employee
// @Tags    CRUD-Employees
// @Accept  json
// @Produce json
// @Param   request body dto.Employee true "Employee"
// @Success 200 {object} idResponse
// @Failure 400 {object} errorResponse "validation error"
// @Failure 409 {object} errorResponse "email already exists"
// @Failure 500 {object} errorResponse
// @Router  /employees [post]
func (s *Service) createEmployee(ctx *fasthttp.RequestCtx) {
	var req dto.Employee

	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	if msg := validateEmployee(req); msg != "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New(msg))
		return
	}

	id, err := s.employees.Create(ctx, req)
	if err != nil {
		if errors.Is(err, dto.ErrAlreadyExists) {
			writeError(ctx, fasthttp.StatusConflict, ErrEmailAlreadyExists)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeesRepository.Create: %w", err))
		return
	}

	okID(ctx, id)
}

// @Summary List employees, optionally filtered by name or department
// @Tags    CRUD-Employees
// @Produce json
// @Param   name       query string false "substring match on first or last name"
// @Param   department query string false "substring match on department"
// @Success 200 {array} dto.Employee
// @Failure 500 {object} errorResponse
// @Router  /employees [get]
func (s *Service) listEmployees(ctx *fasthttp.RequestCtx) {
	var (
		rows []dto.Employee
		err  error
	)

	name := string(ctx.QueryArgs().Peek("name"))
	department := string(ctx.QueryArgs().Peek("department"))

	switch {
	case name != "":
		rows, err = s.employees.SearchByName(ctx, name)
	case department != "":
		rows, err = s.employees.SearchByDepartment(ctx, department)
	default:
		rows, err = s.employees.List(ctx)
	}

	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeesRepository list: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Recently hired employees
// @Tags    CRUD-Employees
// @Produce json
// @Param   days query int false "look-back window in days (default 30)"
// @Success 200 {array} dto.Employee
// @Failure 500 {object} errorResponse
// @Router  /employees/recent [get]
func (s *Service) recentHires(ctx *fasthttp.RequestCtx) {
	days := 30
	if raw := string(ctx.QueryArgs().Peek("days")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			days = n
		}
	}

	rows, err := s.employees.RecentHires(ctx, days)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeesRepository.RecentHires: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

// @Summary Get an employee by id
// @Tags    CRUD-Employees
// @Produce json
// @Param   employee_id path int true "employee id"
// @Success 200 {object} dto.Employee
// @Failure 404 {object} errorResponse "employee not found"
// @Failure 500 {object} errorResponse
// @Router  /employees/{employee_id} [get]
func (s *Service) getEmployee(ctx *fasthttp.RequestCtx) {
	employeeID := pathID(ctx, "employee_id")
	if employeeID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrEmployeeIDRequired)
		return
	}

	row, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrEmployeeNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeesRepository.GetByID: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, row)
}

// @Summary Update a single employee field
// @Tags    CRUD-Employees
// @Accept  json
// @Produce json
// @Param   employee_id path int true "employee id"
// @Param   request body updateEmployeeReq true "field + value"
// @Success 200 {object} okResponse
// @Failure 400 {object} errorResponse "unknown field or invalid value"
// @Failure 404 {object} errorResponse "employee not found"
// @Failure 409 {object} errorResponse "email already exists"
// @Failure 500 {object} errorResponse
// @Router  /employees/{employee_id} [put]
func (s *Service) updateEmployee(ctx *fasthttp.RequestCtx) {
	employeeID := pathID(ctx, "employee_id")
	if employeeID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrEmployeeIDRequired)
		return
	}

	var req updateEmployeeReq
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, fmt.Errorf("json.Unmarshal: %w", err))
		return
	}

	if msg := validateEmployeeField(req.Field, req.Value); msg != "" {
		writeError(ctx, fasthttp.StatusBadRequest, errors.New(msg))
		return
	}

	err := s.employees.UpdateField(ctx, employeeID, req.Field, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, dto.ErrInvalidField):
			writeError(ctx, fasthttp.StatusBadRequest, err)
		case errors.Is(err, dto.ErrNotFound):
			writeError(ctx, fasthttp.StatusNotFound, ErrEmployeeNotFound)
		case errors.Is(err, dto.ErrAlreadyExists):
			writeError(ctx, fasthttp.StatusConflict, ErrEmailAlreadyExists)
		default:
			writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeesRepository.UpdateField: %w", err))
		}
		return
	}

	ok(ctx, "employee updated")
}

// @Summary Delete an employee
// @Tags    CRUD-Employees
// @Produce json
// @Param   employee_id path int true "employee id"
// @Success 200 {object} okResponse
// @Failure 404 {object} errorResponse "employee not found"
// @Failure 500 {object} errorResponse
// @Router  /employees/{employee_id} [delete]
// Reviews referencing the employee stay in the document store and surface
// through /reports/orphaned-reviews; deletion is never blocked by them.
func (s *Service) deleteEmployee(ctx *fasthttp.RequestCtx) {
	employeeID := pathID(ctx, "employee_id")
	if employeeID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrEmployeeIDRequired)
		return
	}

	if err := s.employees.Delete(ctx, employeeID); err != nil {
		if errors.Is(err, dto.ErrNotFound) {
			writeError(ctx, fasthttp.StatusNotFound, ErrEmployeeNotFound)
			return
		}

		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("employeesRepository.Delete: %w", err))
		return
	}

	ok(ctx, "employee deleted")
}

// @Summary Projects assigned to an employee
// @Tags    CRUD-Employees
// @Produce json
// @Param   employee_id path int true "employee id"
// @Success 200 {array} dto.EmployeeProject
// @Failure 500 {object} errorResponse
// @Router  /employees/{employee_id}/projects [get]
func (s *Service) listEmployeeProjects(ctx *fasthttp.RequestCtx) {
	employeeID := pathID(ctx, "employee_id")
	if employeeID == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, ErrEmployeeIDRequired)
		return
	}

	rows, err := s.projects.ProjectsForEmployee(ctx, employeeID)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, fmt.Errorf("projectsRepository.ProjectsForEmployee: %w", err))
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, rows)
}

func validateEmployeeField(field, value string) string {
	switch field {
	case "first_name", "last_name", "department":
		if value == "" {
			return fmt.Sprintf("required field '%s'", field)
		}
	case "email":
		return checkEmail(field, value)
	case "hire_date":
		if msg := checkDate(field, value); msg != "" {
			return msg
		}
		if futureDate(value) {
			return fmt.Sprintf("invalid value in field 'hire_date'=%s: hire date cannot be in the future", value)
		}
	default:
		return fmt.Sprintf("unknown field '%s'", field)
	}

	return ""
}
