package api

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Artexxx/perf-tracker/internal/dto"
	"github.com/Artexxx/perf-tracker/internal/review"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"
)

// @title           Employee Performance Tracker
// @version         1.0
// @description     Record keeping for employees, projects and performance reviews: relational CRUD over Postgres, flexible review documents in MongoDB, composite reporting across both stores.
//
// @BasePath  /
// @schemes   http
// @accept    json
// @produce   json

type EmployeesRepository interface {
	Create(ctx context.Context, e dto.Employee) (int64, error)
	GetByID(ctx context.Context, employeeID int64) (*dto.Employee, error)
	Exists(ctx context.Context, employeeID int64) (bool, error)
	List(ctx context.Context) ([]dto.Employee, error)
	SearchByName(ctx context.Context, name string) ([]dto.Employee, error)
	SearchByDepartment(ctx context.Context, department string) ([]dto.Employee, error)
	RecentHires(ctx context.Context, days int) ([]dto.Employee, error)
	UpdateField(ctx context.Context, employeeID int64, field, value string) error
	Delete(ctx context.Context, employeeID int64) error
}

type ProjectsRepository interface {
	Create(ctx context.Context, p dto.Project) (int64, error)
	Update(ctx context.Context, p dto.Project) error
	Delete(ctx context.Context, projectID int64) error
	GetByID(ctx context.Context, projectID int64) (*dto.Project, error)
	List(ctx context.Context) ([]dto.Project, error)
	SearchByName(ctx context.Context, name string) ([]dto.Project, error)
	ByStatus(ctx context.Context, status string) ([]dto.Project, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	Assign(ctx context.Context, employeeID, projectID int64, role string) (int64, error)
	Unassign(ctx context.Context, employeeID, projectID int64) error
	ProjectsForEmployee(ctx context.Context, employeeID int64) ([]dto.EmployeeProject, error)
	EmployeesForProject(ctx context.Context, projectID int64) ([]dto.ProjectEmployee, error)
}

type ReviewsRepository interface {
	Submit(ctx context.Context, r dto.PerformanceReview) (int64, error)
	ForEmployee(ctx context.Context, employeeID int64) ([]dto.PerformanceReview, error)
	Recent(ctx context.Context, limit int64) ([]dto.PerformanceReview, error)
	ByReviewer(ctx context.Context, reviewerName string) ([]dto.PerformanceReview, error)
	ByDateRange(ctx context.Context, startDate, endDate string) ([]dto.PerformanceReview, error)
	AverageRating(ctx context.Context, employeeID int64) (*dto.RatingSummary, error)
	Update(ctx context.Context, reviewID int64, fields map[string]any) error
	Delete(ctx context.Context, reviewID int64) error
}

type ReportsService interface {
	EmployeeDetail(ctx context.Context, employeeID int64) (*dto.EmployeeReport, error)
	ProjectDetail(ctx context.Context, projectID int64) (*dto.ProjectReport, error)
	TopPerformers(ctx context.Context, limit int) ([]dto.TopPerformer, error)
	ReviewsByDateRange(ctx context.Context, startDate, endDate string) ([]dto.PerformanceReview, error)
	OrphanedReviews(ctx context.Context) ([]dto.PerformanceReview, error)
}

type ServiceDeps struct {
	Port int

	EmployeesRepo EmployeesRepository
	ProjectsRepo  ProjectsRepository
	ReviewsRepo   ReviewsRepository
	Reports       ReportsService
}

type Service struct {
	r      *router.Router
	server *fasthttp.Server
	port   int

	employees EmployeesRepository
	projects  ProjectsRepository
	reviews   ReviewsRepository
	reports   ReportsService

	reviewValidator *review.Validator
}

func NewService(d ServiceDeps) *Service {
	rt := router.New()

	s := &Service{
		r:         rt,
		port:      d.Port,
		employees: d.EmployeesRepo,
		projects:  d.ProjectsRepo,
		reviews:   d.ReviewsRepo,
		reports:   d.Reports,

		reviewValidator: review.NewValidator(d.EmployeesRepo),
	}

	s.mountRoutes()

	s.server = &fasthttp.Server{
		Handler:            RecoveryMiddleware(LoggingMiddleware(CORS(s.r.Handler))),
		Name:               "perf-tracker-api",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       15 * time.Second,
		MaxRequestBodySize: 2 << 20, // 2 MiB
	}

	return s
}

func (s *Service) Start(ctx context.Context) error {
	log.Info().Int("port", s.port).Msg("starting HTTP API")

	emergencyShutdown := make(chan error)
	go func() {
		err := s.server.ListenAndServe(fmt.Sprintf(":%d", s.port))
		emergencyShutdown <- err
	}()

	select {
	case <-ctx.Done():
		return s.server.Shutdown()
	case e := <-emergencyShutdown:
		return e
	}
}

func (s *Service) mountRoutes() {
	// Employees
	s.r.POST("/employees", s.createEmployee)
	s.r.GET("/employees", s.listEmployees)
	s.r.GET("/employees/recent", s.recentHires)
	s.r.GET("/employees/{employee_id}", s.getEmployee)
	s.r.PUT("/employees/{employee_id}", s.updateEmployee)
	s.r.DELETE("/employees/{employee_id}", s.deleteEmployee)
	s.r.GET("/employees/{employee_id}/projects", s.listEmployeeProjects)
	s.r.GET("/employees/{employee_id}/reviews", s.listEmployeeReviews)
	s.r.GET("/employees/{employee_id}/rating", s.getEmployeeRating)

	// Projects
	s.r.POST("/projects", s.createProject)
	s.r.GET("/projects", s.listProjects)
	s.r.GET("/projects/status-counts", s.projectStatusCounts)
	s.r.GET("/projects/{project_id}", s.getProject)
	s.r.PUT("/projects/{project_id}", s.updateProject)
	s.r.DELETE("/projects/{project_id}", s.deleteProject)
	s.r.GET("/projects/{project_id}/employees", s.listProjectEmployees)

	// Assignments
	s.r.POST("/assignments", s.createAssignment)
	s.r.DELETE("/projects/{project_id}/assignments/{employee_id}", s.deleteAssignment)

	// Reviews
	s.r.POST("/reviews", s.submitReview)
	s.r.GET("/reviews", s.listReviewsByDateRange)
	s.r.GET("/reviews/recent", s.listRecentReviews)
	s.r.GET("/reviews/by-reviewer", s.listReviewsByReviewer)
	s.r.PUT("/reviews/{review_id}", s.updateReview)
	s.r.DELETE("/reviews/{review_id}", s.deleteReview)

	// Reports
	s.r.GET("/reports/employees/{employee_id}", s.employeeReport)
	s.r.GET("/reports/projects/{project_id}", s.projectReport)
	s.r.GET("/reports/top-performers", s.topPerformersReport)
	s.r.GET("/reports/orphaned-reviews", s.orphanedReviewsReport)

	// Health
	s.r.GET("/health", s.healthHandler)
}
