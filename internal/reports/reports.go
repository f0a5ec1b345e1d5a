package reports

import (
	"context"
	"fmt"
	"sort"

	"github.com/Artexxx/perf-tracker/internal/dto"
	"github.com/Artexxx/perf-tracker/internal/review"
)

const topGoalsLimit = 5

type EmployeeStore interface {
	GetByID(ctx context.Context, employeeID int64) (*dto.Employee, error)
	List(ctx context.Context) ([]dto.Employee, error)
	Exists(ctx context.Context, employeeID int64) (bool, error)
}

type ProjectStore interface {
	GetByID(ctx context.Context, projectID int64) (*dto.Project, error)
	ProjectsForEmployee(ctx context.Context, employeeID int64) ([]dto.EmployeeProject, error)
	EmployeesForProject(ctx context.Context, projectID int64) ([]dto.ProjectEmployee, error)
}

type ReviewStore interface {
	ForEmployee(ctx context.Context, employeeID int64) ([]dto.PerformanceReview, error)
	Recent(ctx context.Context, limit int64) ([]dto.PerformanceReview, error)
	ByDateRange(ctx context.Context, startDate, endDate string) ([]dto.PerformanceReview, error)
	AverageRating(ctx context.Context, employeeID int64) (*dto.RatingSummary, error)
}

// Service joins the relational store with the review store for composite
// read-only views. The two sides are queried independently, so a report may
// observe them at slightly different points in time; no cross-store
// transaction is attempted.
type Service struct {
	employees EmployeeStore
	projects  ProjectStore
	reviews   ReviewStore
}

func NewService(employees EmployeeStore, projects ProjectStore, reviews ReviewStore) *Service {
	return &Service{
		employees: employees,
		projects:  projects,
		reviews:   reviews,
	}
}

// EmployeeDetail builds the composite employee view: the relational row, the
// project assignments, and the review aggregates.
func (s *Service) EmployeeDetail(ctx context.Context, employeeID int64) (*dto.EmployeeReport, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("employees.GetByID: %w", err)
	}

	projects, err := s.projects.ProjectsForEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("projects.ProjectsForEmployee: %w", err)
	}

	reviews, err := s.reviews.ForEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("reviews.ForEmployee: %w", err)
	}

	report := dto.EmployeeReport{
		Employee:    *emp,
		Projects:    projects,
		ReviewCount: len(reviews),
		Strengths:   review.Frequencies(fieldValues(reviews, fieldStrengths)),
		Areas:       review.Frequencies(fieldValues(reviews, fieldAreas)),
		TopGoals:    review.TopK(fieldValues(reviews, fieldGoals), topGoalsLimit),
	}

	summary, err := s.reviews.AverageRating(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("reviews.AverageRating: %w", err)
	}
	if summary != nil {
		report.AverageRating = &summary.AverageRating
	}

	return &report, nil
}

// ProjectDetail builds the project view with per-employee average ratings.
func (s *Service) ProjectDetail(ctx context.Context, projectID int64) (*dto.ProjectReport, error) {
	proj, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("projects.GetByID: %w", err)
	}

	employees, err := s.projects.EmployeesForProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("projects.EmployeesForProject: %w", err)
	}

	ratings := make(map[int64]float64)
	for _, pe := range employees {
		summary, err := s.reviews.AverageRating(ctx, pe.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("reviews.AverageRating: %w", err)
		}
		if summary != nil {
			ratings[pe.EmployeeID] = summary.AverageRating
		}
	}

	return &dto.ProjectReport{
		Project:   *proj,
		Employees: employees,
		Ratings:   ratings,
	}, nil
}

// TopPerformers ranks employees by average rating, highest first. Employees
// without reviews are omitted.
func (s *Service) TopPerformers(ctx context.Context, limit int) ([]dto.TopPerformer, error) {
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("employees.List: %w", err)
	}

	var out []dto.TopPerformer
	for _, emp := range employees {
		summary, err := s.reviews.AverageRating(ctx, emp.EmployeeID)
		if err != nil {
			return nil, fmt.Errorf("reviews.AverageRating: %w", err)
		}
		if summary == nil {
			continue
		}

		out = append(out, dto.TopPerformer{
			EmployeeID:    emp.EmployeeID,
			Name:          emp.FirstName + " " + emp.LastName,
			AverageRating: summary.AverageRating,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AverageRating > out[j].AverageRating
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// ReviewsByDateRange lists reviews within the range. An inverted range is
// answered with an empty list without touching the store.
func (s *Service) ReviewsByDateRange(ctx context.Context, startDate, endDate string) ([]dto.PerformanceReview, error) {
	if startDate > endDate {
		return []dto.PerformanceReview{}, nil
	}

	reviews, err := s.reviews.ByDateRange(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("reviews.ByDateRange: %w", err)
	}

	return reviews, nil
}

// OrphanedReviews lists reviews whose employee no longer exists in the
// relational store. Cross-store referential integrity is best-effort:
// deleting an employee does not cascade into the document store, so reporting
// surfaces the drift instead of hiding it.
func (s *Service) OrphanedReviews(ctx context.Context) ([]dto.PerformanceReview, error) {
	reviews, err := s.reviews.Recent(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("reviews.Recent: %w", err)
	}

	known := make(map[int64]bool)

	var out []dto.PerformanceReview
	for _, r := range reviews {
		exists, ok := known[r.EmployeeID]
		if !ok {
			exists, err = s.employees.Exists(ctx, r.EmployeeID)
			if err != nil {
				return nil, fmt.Errorf("employees.Exists: %w", err)
			}
			known[r.EmployeeID] = exists
		}

		if !exists {
			out = append(out, r)
		}
	}

	return out, nil
}

type reviewField int

const (
	fieldStrengths reviewField = iota
	fieldAreas
	fieldGoals
)

func fieldValues(reviews []dto.PerformanceReview, field reviewField) []any {
	out := make([]any, 0, len(reviews))
	for _, r := range reviews {
		switch field {
		case fieldStrengths:
			out = append(out, r.Strengths)
		case fieldAreas:
			out = append(out, r.AreasForImprovement)
		case fieldGoals:
			out = append(out, r.GoalsForNextPeriod)
		}
	}

	return out
}
