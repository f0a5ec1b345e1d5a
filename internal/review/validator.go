package review

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ValidationErrors maps a field name to the message for its violated
// constraint. An empty map means the input is valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for field, msg := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}

	return strings.Join(parts, "; ")
}

type EmployeeChecker interface {
	Exists(ctx context.Context, employeeID int64) (bool, error)
}

// Validator checks review submissions and updates before persistence.
// The employee existence lookup is the only side effect: review documents
// reference employees as a soft key the document store does not enforce.
type Validator struct {
	employees EmployeeChecker
}

func NewValidator(employees EmployeeChecker) *Validator {
	return &Validator{employees: employees}
}

// Submission — a candidate review before validation.
type Submission struct {
	EmployeeID          int64
	ReviewerName        string
	OverallRating       float64
	ReviewDate          string
	Strengths           any
	AreasForImprovement any
	Comments            string
	GoalsForNextPeriod  any
	Extra               map[string]any
}

func ValidReviewerName(name string) bool {
	return strings.TrimSpace(name) != ""
}

func ValidRating(rating float64) bool {
	return rating >= 1.0 && rating <= 5.0
}

func ValidReviewDate(date string) bool {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}

	return !d.After(time.Now())
}

// validTextField accepts absent values, strings and lists of strings;
// anything else is a malformed free-text field.
func validTextField(value any) bool {
	switch v := value.(type) {
	case nil, string, []string:
		return true
	case []any:
		for _, item := range v {
			if _, ok := item.(string); !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ValidateSubmission returns a field->message map for every violated
// constraint. The returned error is reserved for store connectivity failures
// during the employee existence lookup and is surfaced as-is.
func (v *Validator) ValidateSubmission(ctx context.Context, s Submission) (ValidationErrors, error) {
	errs := ValidationErrors{}

	if s.EmployeeID <= 0 {
		errs["employee_id"] = "Employee ID must be a positive integer."
	} else {
		exists, err := v.employees.Exists(ctx, s.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("employees.Exists: %w", err)
		}
		if !exists {
			errs["employee_id"] = fmt.Sprintf("Employee ID %d does not exist in the database.", s.EmployeeID)
		}
	}

	if !ValidReviewerName(s.ReviewerName) {
		errs["reviewer_name"] = "Reviewer name must be a non-empty string."
	}

	if !ValidRating(s.OverallRating) {
		errs["overall_rating"] = "Overall rating must be a number between 1.0 and 5.0."
	}

	if s.ReviewDate != "" && !ValidReviewDate(s.ReviewDate) {
		errs["review_date"] = "Review date must be a valid date and cannot be in the future."
	}

	if !validTextField(s.Strengths) || !validTextField(s.AreasForImprovement) || !validTextField(s.GoalsForNextPeriod) {
		errs["extra_fields"] = "Invalid format for strengths, areas_for_improvement, or goals_for_next_period."
	}

	return errs, nil
}

// ValidateUpdate checks a partial field update against the same rules as
// submission. Unknown fields pass through untouched: the document schema is
// open-ended.
func (v *Validator) ValidateUpdate(ctx context.Context, fields map[string]any) (ValidationErrors, error) {
	errs := ValidationErrors{}

	for field, value := range fields {
		switch field {
		case "employee_id":
			id, ok := asInt64(value)
			if !ok || id <= 0 {
				errs[field] = "Employee ID must be a positive integer."
				continue
			}

			exists, err := v.employees.Exists(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("employees.Exists: %w", err)
			}
			if !exists {
				errs[field] = fmt.Sprintf("Employee ID %d does not exist.", id)
			}
		case "reviewer_name":
			name, ok := value.(string)
			if !ok || !ValidReviewerName(name) {
				errs[field] = "Reviewer name must be a non-empty string."
			}
		case "overall_rating":
			rating, ok := asFloat64(value)
			if !ok || !ValidRating(rating) {
				errs[field] = "Overall rating must be between 1.0 and 5.0."
			}
		case "review_date":
			date, ok := value.(string)
			if !ok || !ValidReviewDate(date) {
				errs[field] = "Review date must be valid and not in the future."
			}
		case "strengths", "areas_for_improvement", "goals_for_next_period":
			if !validTextField(value) {
				errs[field] = "Invalid format for strengths, areas_for_improvement, or goals_for_next_period."
			}
		}
	}

	return errs, nil
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), v == float64(int64(v))
	default:
		return 0, false
	}
}

func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
