package dto

// Employee — a row of the employees table.
type Employee struct {
	EmployeeID int64  `json:"employee_id" example:"101"`
	FirstName  string `json:"first_name" example:"Anna"`
	LastName   string `json:"last_name" example:"Ivanova"`
	Email      string `json:"email" example:"anna@mail.ru"` // unique
	HireDate   string `json:"hire_date" example:"2021-03-15"`
	Department string `json:"department" example:"Quality"`
}
