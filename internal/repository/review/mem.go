package review

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/Artexxx/perf-tracker/internal/dto"
)

// MemRepository is an in-memory drop-in for Repository. The shared counter
// becomes a mutex-guarded sequence; the semantics of every operation match
// the Mongo-backed implementation. Used by tests and local runs without a
// document store.
type MemRepository struct {
	mu   sync.Mutex
	seq  int64
	docs []dto.PerformanceReview
}

func NewMemRepository() *MemRepository {
	return &MemRepository{}
}

func (m *MemRepository) Submit(_ context.Context, review dto.PerformanceReview) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	review.ReviewID = m.seq
	m.docs = append(m.docs, review)

	return review.ReviewID, nil
}

func (m *MemRepository) EnsureReviewIDs(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, doc := range m.docs {
		if doc.ReviewID > m.seq {
			m.seq = doc.ReviewID
		}
	}

	migrated := 0
	for i := range m.docs {
		if m.docs[i].ReviewID == 0 {
			m.seq++
			m.docs[i].ReviewID = m.seq
			migrated++
		}
	}

	return migrated, nil
}

func (m *MemRepository) ForEmployee(_ context.Context, employeeID int64) ([]dto.PerformanceReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []dto.PerformanceReview
	for _, doc := range m.docs {
		if doc.EmployeeID == employeeID {
			out = append(out, doc)
		}
	}

	sortByDateDesc(out)

	return out, nil
}

func (m *MemRepository) Recent(_ context.Context, limit int64) ([]dto.PerformanceReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]dto.PerformanceReview(nil), m.docs...)
	sortByDateDesc(out)

	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (m *MemRepository) ByReviewer(_ context.Context, reviewerName string) ([]dto.PerformanceReview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(reviewerName)

	var out []dto.PerformanceReview
	for _, doc := range m.docs {
		if strings.Contains(strings.ToLower(doc.ReviewerName), needle) {
			out = append(out, doc)
		}
	}

	sortByDateDesc(out)

	return out, nil
}

func (m *MemRepository) ByDateRange(_ context.Context, startDate, endDate string) ([]dto.PerformanceReview, error) {
	if startDate > endDate {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var out []dto.PerformanceReview
	for _, doc := range m.docs {
		if doc.ReviewDate >= startDate && doc.ReviewDate <= endDate {
			out = append(out, doc)
		}
	}

	sortByDateDesc(out)

	return out, nil
}

func (m *MemRepository) AverageRating(_ context.Context, employeeID int64) (*dto.RatingSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var (
		sum   float64
		count int
	)
	for _, doc := range m.docs {
		if doc.EmployeeID == employeeID {
			sum += doc.OverallRating
			count++
		}
	}

	if count == 0 {
		return nil, nil
	}

	return &dto.RatingSummary{
		AverageRating: math.Round(sum/float64(count)*100) / 100,
		ReviewCount:   count,
	}, nil
}

func (m *MemRepository) Update(_ context.Context, reviewID int64, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.docs {
		if m.docs[i].ReviewID == reviewID {
			applyFields(&m.docs[i], fields)
			return nil
		}
	}

	return dto.ErrNotFound
}

func (m *MemRepository) Delete(_ context.Context, reviewID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.docs {
		if m.docs[i].ReviewID == reviewID {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return nil
		}
	}

	return dto.ErrNotFound
}

func sortByDateDesc(docs []dto.PerformanceReview) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].ReviewDate > docs[j].ReviewDate
	})
}

// applyFields mirrors the $set semantics of the Mongo implementation.
// Numeric values may arrive as int, int64 or float64 depending on the
// decoder, so they are coerced rather than type-asserted.
func applyFields(doc *dto.PerformanceReview, fields map[string]any) {
	for key, value := range fields {
		switch key {
		case "employee_id":
			if id, ok := asInt64(value); ok {
				doc.EmployeeID = id
			}
		case "reviewer_name":
			if s, ok := value.(string); ok {
				doc.ReviewerName = s
			}
		case "overall_rating":
			if f, ok := asFloat64(value); ok {
				doc.OverallRating = f
			}
		case "review_date":
			if s, ok := value.(string); ok {
				doc.ReviewDate = s
			}
		case "comments":
			if s, ok := value.(string); ok {
				doc.Comments = s
			}
		case "strengths":
			doc.Strengths = value
		case "areas_for_improvement":
			doc.AreasForImprovement = value
		case "goals_for_next_period":
			doc.GoalsForNextPeriod = value
		default:
			if doc.Extra == nil {
				doc.Extra = make(map[string]any)
			}
			doc.Extra[key] = value
		}
	}
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
