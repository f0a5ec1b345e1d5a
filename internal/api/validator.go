package api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/Artexxx/perf-tracker/internal/dto"
)

var regexDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var allowedStatuses = map[string]struct{}{
	dto.StatusPlanning: {}, dto.StatusActive: {}, dto.StatusCompleted: {}, dto.StatusOnHold: {},
}

func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func futureDate(s string) bool {
	d, err := time.Parse("2006-01-02", s)
	return err == nil && d.After(time.Now())
}

func checkDate(field, value string) string {
	if !regexDate.MatchString(value) || !validDate(value) {
		return fmt.Sprintf("invalid value in field '%s'=%s", field, value)
	}

	return ""
}

func checkEmail(field, value string) string {
	if !strings.Contains(value, "@") {
		return fmt.Sprintf("invalid value in field '%s'=%s", field, value)
	}

	return ""
}

func validateEmployee(e dto.Employee) string {
	if strings.TrimSpace(e.FirstName) == "" {
		return "required field 'first_name'"
	}

	if strings.TrimSpace(e.LastName) == "" {
		return "required field 'last_name'"
	}

	if strings.TrimSpace(e.Email) == "" {
		return "required field 'email'"
	}

	if msg := checkEmail("email", strings.TrimSpace(e.Email)); msg != "" {
		return msg
	}

	if strings.TrimSpace(e.HireDate) == "" {
		return "required field 'hire_date'"
	}

	if msg := checkDate("hire_date", strings.TrimSpace(e.HireDate)); msg != "" {
		return msg
	}

	if futureDate(strings.TrimSpace(e.HireDate)) {
		return fmt.Sprintf("invalid value in field 'hire_date'=%s: hire date cannot be in the future", e.HireDate)
	}

	return ""
}

func validateProject(p dto.Project) string {
	if strings.TrimSpace(p.ProjectName) == "" {
		return "required field 'project_name'"
	}

	if strings.TrimSpace(p.StartDate) == "" {
		return "required field 'start_date'"
	}

	if msg := checkDate("start_date", strings.TrimSpace(p.StartDate)); msg != "" {
		return msg
	}

	if p.EndDate != nil {
		endDate := strings.TrimSpace(*p.EndDate)

		if endDate != "" {
			if msg := checkDate("end_date", endDate); msg != "" {
				return msg
			}

			if endDate < strings.TrimSpace(p.StartDate) {
				return fmt.Sprintf("invalid value in field 'period'={start:%s end:%s}", p.StartDate, endDate)
			}
		}
	}

	if _, ok := allowedStatuses[p.Status]; !ok {
		return fmt.Sprintf("invalid enum value: status %s not in allowed statuses %v", p.Status, dto.AllowedStatuses)
	}

	return ""
}

func validateRole(role string) string {
	if strings.TrimSpace(role) == "" {
		return "required field 'role'"
	}

	return ""
}

// pathID parses a positive integer path parameter; 0 means absent/invalid.
func pathID(ctx *fasthttp.RequestCtx, name string) int64 {
	raw, ok := ctx.UserValue(name).(string)
	if !ok {
		return 0
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}

	return id
}
