package dto

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PerformanceReview — a flexible review document. ReviewID is the stable
// integer assigned from the shared counter, distinct from the Mongo _id.
// Free-text fields may hold either a delimited string or a list of tokens;
// Extra carries arbitrary caller-supplied fields.
type PerformanceReview struct {
	ObjectID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ReviewID            int64              `bson:"review_id,omitempty" json:"review_id,omitempty"`
	EmployeeID          int64              `bson:"employee_id" json:"employee_id"`
	ReviewerName        string             `bson:"reviewer_name" json:"reviewer_name"`
	OverallRating       float64            `bson:"overall_rating" json:"overall_rating"`
	ReviewDate          string             `bson:"review_date" json:"review_date"`
	CreatedAt           string             `bson:"created_at" json:"created_at"`
	Strengths           any                `bson:"strengths,omitempty" json:"strengths,omitempty"`
	AreasForImprovement any                `bson:"areas_for_improvement,omitempty" json:"areas_for_improvement,omitempty"`
	Comments            string             `bson:"comments,omitempty" json:"comments,omitempty"`
	GoalsForNextPeriod  any                `bson:"goals_for_next_period,omitempty" json:"goals_for_next_period,omitempty"`
	Extra               map[string]any     `bson:",inline" json:"extra,omitempty"`
}

// TokenCount — one entry of an ordered frequency table.
type TokenCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

// RatingSummary — aggregated rating stats for one employee.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// EmployeeReport — composite view over both stores for one employee.
type EmployeeReport struct {
	Employee      Employee          `json:"employee"`
	Projects      []EmployeeProject `json:"projects"`
	ReviewCount   int               `json:"review_count"`
	AverageRating *float64          `json:"average_rating,omitempty"`
	Strengths     []TokenCount      `json:"strengths"`
	Areas         []TokenCount      `json:"areas_for_improvement"`
	TopGoals      []string          `json:"top_goals"`
}

// ProjectReport — project detail with per-employee average ratings.
type ProjectReport struct {
	Project   Project           `json:"project"`
	Employees []ProjectEmployee `json:"employees"`
	Ratings   map[int64]float64 `json:"ratings"` // employee_id -> average rating
}

// TopPerformer — one row of the top-performers ranking.
type TopPerformer struct {
	EmployeeID    int64   `json:"employee_id"`
	Name          string  `json:"name"`
	AverageRating float64 `json:"average_rating"`
}
