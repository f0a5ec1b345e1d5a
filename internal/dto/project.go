package dto

// Allowed project statuses.
const (
	StatusPlanning  = "Planning"
	StatusActive    = "Active"
	StatusCompleted = "Completed"
	StatusOnHold    = "On Hold"
)

var AllowedStatuses = []string{StatusPlanning, StatusActive, StatusCompleted, StatusOnHold}

// Project — a row of the projects table.
type Project struct {
	ProjectID   int64   `json:"project_id" example:"7"`
	ProjectName string  `json:"project_name" example:"Billing Rework"` // unique
	StartDate   string  `json:"start_date" example:"2024-01-10"`
	EndDate     *string `json:"end_date,omitempty" example:"2024-09-30"`
	Status      string  `json:"status" example:"Active"`
}

// Assignment links an employee to a project. Unique on (employee_id, project_id).
type Assignment struct {
	AssignmentID int64  `json:"assignment_id"`
	EmployeeID   int64  `json:"employee_id"`
	ProjectID    int64  `json:"project_id"`
	Role         string `json:"role"`
	AssignedDate string `json:"assigned_date"`
}

// EmployeeProject — an assignment joined with the project row, for the
// employee-side view.
type EmployeeProject struct {
	AssignmentID int64  `json:"assignment_id"`
	ProjectID    int64  `json:"project_id"`
	ProjectName  string `json:"project_name"`
	Role         string `json:"role"`
	AssignedDate string `json:"assigned_date"`
}

// ProjectEmployee — an assignment joined with the employee row, for the
// project-side view.
type ProjectEmployee struct {
	AssignmentID int64  `json:"assignment_id"`
	EmployeeID   int64  `json:"employee_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Role         string `json:"role"`
	AssignedDate string `json:"assigned_date"`
}
