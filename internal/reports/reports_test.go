package reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artexxx/perf-tracker/internal/dto"
	reviewrepo "github.com/Artexxx/perf-tracker/internal/repository/review"
)

type fakeEmployees struct {
	rows map[int64]dto.Employee
}

func (f *fakeEmployees) GetByID(_ context.Context, employeeID int64) (*dto.Employee, error) {
	if e, ok := f.rows[employeeID]; ok {
		return &e, nil
	}

	return nil, dto.ErrNotFound
}

func (f *fakeEmployees) List(_ context.Context) ([]dto.Employee, error) {
	out := make([]dto.Employee, 0, len(f.rows))
	for _, e := range f.rows {
		out = append(out, e)
	}

	return out, nil
}

func (f *fakeEmployees) Exists(_ context.Context, employeeID int64) (bool, error) {
	_, ok := f.rows[employeeID]
	return ok, nil
}

type fakeProjects struct {
	rows       map[int64]dto.Project
	byEmployee map[int64][]dto.EmployeeProject
	byProject  map[int64][]dto.ProjectEmployee
}

func (f *fakeProjects) GetByID(_ context.Context, projectID int64) (*dto.Project, error) {
	if p, ok := f.rows[projectID]; ok {
		return &p, nil
	}

	return nil, dto.ErrNotFound
}

func (f *fakeProjects) ProjectsForEmployee(_ context.Context, employeeID int64) ([]dto.EmployeeProject, error) {
	return f.byEmployee[employeeID], nil
}

func (f *fakeProjects) EmployeesForProject(_ context.Context, projectID int64) ([]dto.ProjectEmployee, error) {
	return f.byProject[projectID], nil
}

// failingReviews trips the test if the report layer touches the store.
type failingReviews struct {
	t *testing.T
}

func (f *failingReviews) ForEmployee(context.Context, int64) ([]dto.PerformanceReview, error) {
	f.t.Fatal("unexpected ForEmployee call")
	return nil, nil
}

func (f *failingReviews) Recent(context.Context, int64) ([]dto.PerformanceReview, error) {
	f.t.Fatal("unexpected Recent call")
	return nil, nil
}

func (f *failingReviews) ByDateRange(context.Context, string, string) ([]dto.PerformanceReview, error) {
	f.t.Fatal("unexpected ByDateRange call")
	return nil, nil
}

func (f *failingReviews) AverageRating(context.Context, int64) (*dto.RatingSummary, error) {
	f.t.Fatal("unexpected AverageRating call")
	return nil, nil
}

func seedEmployees() *fakeEmployees {
	return &fakeEmployees{rows: map[int64]dto.Employee{
		101: {EmployeeID: 101, FirstName: "Anna", LastName: "Ivanova", Department: "Platform"},
		102: {EmployeeID: 102, FirstName: "Boris", LastName: "Petrov", Department: "Billing"},
		103: {EmployeeID: 103, FirstName: "Clara", LastName: "Weiss", Department: "Billing"},
	}}
}

func TestEmployeeDetail(t *testing.T) {
	ctx := context.Background()

	reviews := reviewrepo.NewMemRepository()
	_, err := reviews.Submit(ctx, dto.PerformanceReview{
		EmployeeID:    101,
		OverallRating: 4.5,
		ReviewDate:    "2024-01-01",
		Strengths:     "Focus, Teamwork",
	})
	require.NoError(t, err)

	projects := &fakeProjects{byEmployee: map[int64][]dto.EmployeeProject{
		101: {{AssignmentID: 1, ProjectID: 7, ProjectName: "Billing Rework", Role: "Developer"}},
	}}

	svc := NewService(seedEmployees(), projects, reviews)

	report, err := svc.EmployeeDetail(ctx, 101)
	require.NoError(t, err)

	assert.Equal(t, "Anna", report.Employee.FirstName)
	require.Len(t, report.Projects, 1)
	assert.Equal(t, "Billing Rework", report.Projects[0].ProjectName)
	assert.Equal(t, 1, report.ReviewCount)
	require.NotNil(t, report.AverageRating)
	assert.Equal(t, 4.5, *report.AverageRating)
	assert.Equal(t, []dto.TokenCount{
		{Token: "focus", Count: 1},
		{Token: "teamwork", Count: 1},
	}, report.Strengths)
	assert.Empty(t, report.Areas)
}

func TestEmployeeDetailNoReviews(t *testing.T) {
	svc := NewService(seedEmployees(), &fakeProjects{}, reviewrepo.NewMemRepository())

	report, err := svc.EmployeeDetail(context.Background(), 102)
	require.NoError(t, err)

	assert.Zero(t, report.ReviewCount)
	assert.Nil(t, report.AverageRating)
}

func TestEmployeeDetailUnknownEmployee(t *testing.T) {
	svc := NewService(seedEmployees(), &fakeProjects{}, reviewrepo.NewMemRepository())

	_, err := svc.EmployeeDetail(context.Background(), 999)
	assert.ErrorIs(t, err, dto.ErrNotFound)
}

func TestProjectDetail(t *testing.T) {
	ctx := context.Background()

	reviews := reviewrepo.NewMemRepository()
	_, _ = reviews.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 4.0, ReviewDate: "2024-01-01"})
	_, _ = reviews.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 3.0, ReviewDate: "2024-02-01"})

	projects := &fakeProjects{
		rows: map[int64]dto.Project{
			7: {ProjectID: 7, ProjectName: "Billing Rework", Status: dto.StatusActive},
		},
		byProject: map[int64][]dto.ProjectEmployee{
			7: {
				{AssignmentID: 1, EmployeeID: 101, FirstName: "Anna", LastName: "Ivanova", Role: "Developer"},
				{AssignmentID: 2, EmployeeID: 102, FirstName: "Boris", LastName: "Petrov", Role: "QA"},
			},
		},
	}

	svc := NewService(seedEmployees(), projects, reviews)

	report, err := svc.ProjectDetail(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, "Billing Rework", report.Project.ProjectName)
	assert.Len(t, report.Employees, 2)

	// Average of 4.0 and 3.0; Boris has no reviews and gets no entry.
	assert.Equal(t, map[int64]float64{101: 3.5}, report.Ratings)
}

func TestTopPerformers(t *testing.T) {
	ctx := context.Background()

	reviews := reviewrepo.NewMemRepository()
	_, _ = reviews.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 3.0, ReviewDate: "2024-01-01"})
	_, _ = reviews.Submit(ctx, dto.PerformanceReview{EmployeeID: 102, OverallRating: 5.0, ReviewDate: "2024-01-01"})

	svc := NewService(seedEmployees(), &fakeProjects{}, reviews)

	rows, err := svc.TopPerformers(ctx, 5)
	require.NoError(t, err)

	// Clara has no reviews and is omitted entirely.
	require.Len(t, rows, 2)
	assert.Equal(t, dto.TopPerformer{EmployeeID: 102, Name: "Boris Petrov", AverageRating: 5.0}, rows[0])
	assert.Equal(t, dto.TopPerformer{EmployeeID: 101, Name: "Anna Ivanova", AverageRating: 3.0}, rows[1])

	rows, err = svc.TopPerformers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(102), rows[0].EmployeeID)
}

func TestReviewsByDateRangeInvertedRangeSkipsStore(t *testing.T) {
	svc := NewService(seedEmployees(), &fakeProjects{}, &failingReviews{t: t})

	rows, err := svc.ReviewsByDateRange(context.Background(), "2024-12-31", "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOrphanedReviews(t *testing.T) {
	ctx := context.Background()

	reviews := reviewrepo.NewMemRepository()
	_, _ = reviews.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, ReviewDate: "2024-01-01"})
	_, _ = reviews.Submit(ctx, dto.PerformanceReview{EmployeeID: 999, ReviewDate: "2024-02-01"})
	_, _ = reviews.Submit(ctx, dto.PerformanceReview{EmployeeID: 999, ReviewDate: "2024-03-01"})

	svc := NewService(seedEmployees(), &fakeProjects{}, reviews)

	rows, err := svc.OrphanedReviews(ctx)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, int64(999), r.EmployeeID)
	}
}
