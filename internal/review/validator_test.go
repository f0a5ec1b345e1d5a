package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmployees struct {
	existing map[int64]bool
	err      error
}

func (s *stubEmployees) Exists(_ context.Context, employeeID int64) (bool, error) {
	if s.err != nil {
		return false, s.err
	}

	return s.existing[employeeID], nil
}

func validSubmission() Submission {
	return Submission{
		EmployeeID:    101,
		ReviewerName:  "Anna Ivanova",
		OverallRating: 4.5,
		ReviewDate:    "2024-01-01",
		Strengths:     "Focus, Teamwork",
	}
}

func TestValidateSubmissionOK(t *testing.T) {
	v := NewValidator(&stubEmployees{existing: map[int64]bool{101: true}})

	errs, err := v.ValidateSubmission(context.Background(), validSubmission())

	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateSubmissionNonPositiveEmployeeID(t *testing.T) {
	v := NewValidator(&stubEmployees{})

	s := validSubmission()
	s.EmployeeID = 0

	errs, err := v.ValidateSubmission(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, "Employee ID must be a positive integer.", errs["employee_id"])
}

func TestValidateSubmissionUnknownEmployee(t *testing.T) {
	v := NewValidator(&stubEmployees{existing: map[int64]bool{}})

	errs, err := v.ValidateSubmission(context.Background(), validSubmission())

	require.NoError(t, err)
	assert.Equal(t, "Employee ID 101 does not exist in the database.", errs["employee_id"])
}

func TestValidateSubmissionStoreError(t *testing.T) {
	v := NewValidator(&stubEmployees{err: errors.New("connection refused")})

	_, err := v.ValidateSubmission(context.Background(), validSubmission())

	assert.Error(t, err)
}

func TestValidateSubmissionReviewerName(t *testing.T) {
	v := NewValidator(&stubEmployees{existing: map[int64]bool{101: true}})

	s := validSubmission()
	s.ReviewerName = "   "

	errs, err := v.ValidateSubmission(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, "Reviewer name must be a non-empty string.", errs["reviewer_name"])
}

func TestValidateSubmissionRatingBounds(t *testing.T) {
	v := NewValidator(&stubEmployees{existing: map[int64]bool{101: true}})

	for _, rating := range []float64{1.0, 3.3, 5.0} {
		s := validSubmission()
		s.OverallRating = rating

		errs, err := v.ValidateSubmission(context.Background(), s)

		require.NoError(t, err)
		assert.NotContains(t, errs, "overall_rating", "rating %v must be accepted", rating)
	}

	for _, rating := range []float64{0, 0.9, 5.1, -3} {
		s := validSubmission()
		s.OverallRating = rating

		errs, err := v.ValidateSubmission(context.Background(), s)

		require.NoError(t, err)
		assert.Equal(t, "Overall rating must be a number between 1.0 and 5.0.", errs["overall_rating"], "rating %v must be rejected", rating)
	}
}

func TestValidateSubmissionFutureDate(t *testing.T) {
	v := NewValidator(&stubEmployees{existing: map[int64]bool{101: true}})

	s := validSubmission()
	s.ReviewDate = time.Now().AddDate(0, 0, 7).Format(DateLayout)

	errs, err := v.ValidateSubmission(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, "Review date must be a valid date and cannot be in the future.", errs["review_date"])
}

func TestValidateSubmissionMalformedDate(t *testing.T) {
	v := NewValidator(&stubEmployees{existing: map[int64]bool{101: true}})

	s := validSubmission()
	s.ReviewDate = "not-a-date"

	errs, err := v.ValidateSubmission(context.Background(), s)

	require.NoError(t, err)
	assert.Contains(t, errs, "review_date")
}

func TestValidateSubmissionFreeTextTypes(t *testing.T) {
	v := NewValidator(&stubEmployees{existing: map[int64]bool{101: true}})

	s := validSubmission()
	s.Strengths = []string{"Focus", "Teamwork"}
	s.GoalsForNextPeriod = []any{"Ship the migration"}

	errs, err := v.ValidateSubmission(context.Background(), s)

	require.NoError(t, err)
	assert.Empty(t, errs)

	s.AreasForImprovement = 42

	errs, err = v.ValidateSubmission(context.Background(), s)

	require.NoError(t, err)
	assert.Equal(t, "Invalid format for strengths, areas_for_improvement, or goals_for_next_period.", errs["extra_fields"])
}

func TestValidateSubmissionCollectsAllViolations(t *testing.T) {
	v := NewValidator(&stubEmployees{})

	errs, err := v.ValidateSubmission(context.Background(), Submission{
		EmployeeID:    -1,
		ReviewerName:  "",
		OverallRating: 0,
		ReviewDate:    "2020-13-45",
		Strengths:     map[string]any{"bad": true},
	})

	require.NoError(t, err)
	assert.Len(t, errs, 5)
}

func TestValidateUpdate(t *testing.T) {
	v := NewValidator(&stubEmployees{existing: map[int64]bool{101: true}})

	errs, err := v.ValidateUpdate(context.Background(), map[string]any{
		"overall_rating": 4.0,
		"reviewer_name":  "Boris Petrov",
		"custom_field":   struct{}{}, // unknown fields pass through
	})

	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = v.ValidateUpdate(context.Background(), map[string]any{
		"overall_rating": 7.5,
		"employee_id":    float64(999), // json numbers decode as float64
		"review_date":    "3024-01-01",
	})

	require.NoError(t, err)
	assert.Equal(t, "Overall rating must be between 1.0 and 5.0.", errs["overall_rating"])
	assert.Equal(t, "Employee ID 999 does not exist.", errs["employee_id"])
	assert.Contains(t, errs, "review_date")
}
