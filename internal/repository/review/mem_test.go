package review

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artexxx/perf-tracker/internal/dto"
)

func TestSubmitAssignsSequentialIDs(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	first, err := repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 4.5, ReviewDate: "2024-01-01"})
	require.NoError(t, err)

	second, err := repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 102, OverallRating: 3.0, ReviewDate: "2024-02-01"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestConcurrentSubmitsGetDistinctIDs(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	const n = 50

	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			id, err := repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 4.0, ReviewDate: "2024-01-01"})
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate review id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestEnsureReviewIDsBackfill(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	// Legacy documents written before the counter existed.
	repo.docs = []dto.PerformanceReview{
		{ReviewID: 7, EmployeeID: 101, ReviewDate: "2023-01-01"},
		{EmployeeID: 102, ReviewDate: "2023-02-01"},
		{EmployeeID: 103, ReviewDate: "2023-03-01"},
	}

	migrated, err := repo.EnsureReviewIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, migrated)

	// New ids continue past the existing maximum.
	assert.Equal(t, int64(8), repo.docs[1].ReviewID)
	assert.Equal(t, int64(9), repo.docs[2].ReviewID)

	// Second run is a no-op and existing ids stay put.
	migrated, err = repo.EnsureReviewIDs(ctx)
	require.NoError(t, err)
	assert.Zero(t, migrated)
	assert.Equal(t, int64(7), repo.docs[0].ReviewID)
	assert.Equal(t, int64(8), repo.docs[1].ReviewID)

	// The advanced counter keeps fresh submissions collision-free.
	id, err := repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 104, ReviewDate: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), id)
}

func TestForEmployeeSortedByDateDesc(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, ReviewDate: "2024-01-01"})
	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, ReviewDate: "2024-03-01"})
	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 999, ReviewDate: "2024-02-01"})

	rows, err := repo.ForEmployee(ctx, 101)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-01", rows[0].ReviewDate)
	assert.Equal(t, "2024-01-01", rows[1].ReviewDate)
}

func TestRecentHonorsLimit(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	for _, date := range []string{"2024-01-01", "2024-02-01", "2024-03-01"} {
		_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, ReviewDate: date})
	}

	rows, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-01", rows[0].ReviewDate)

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestByReviewerCaseInsensitiveSubstring(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, ReviewerName: "Anna Ivanova", ReviewDate: "2024-01-01"})
	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 102, ReviewerName: "Boris Petrov", ReviewDate: "2024-02-01"})

	rows, err := repo.ByReviewer(ctx, "anna")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Anna Ivanova", rows[0].ReviewerName)
}

func TestByDateRangeInvertedRange(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, ReviewDate: "2024-02-01"})

	rows, err := repo.ByDateRange(ctx, "2024-03-01", "2024-01-01")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = repo.ByDateRange(ctx, "2024-01-01", "2024-12-31")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestAverageRatingRoundsToTwoDecimals(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 4.0, ReviewDate: "2024-01-01"})
	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 3.0, ReviewDate: "2024-02-01"})
	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 3.0, ReviewDate: "2024-03-01"})

	summary, err := repo.AverageRating(ctx, 101)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 3.33, summary.AverageRating)
	assert.Equal(t, 3, summary.ReviewCount)
}

func TestAverageRatingTwoReviews(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 4.0, ReviewDate: "2024-01-01"})
	_, _ = repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 3.0, ReviewDate: "2024-02-01"})

	summary, err := repo.AverageRating(ctx, 101)
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 3.5, summary.AverageRating)
	assert.Equal(t, 2, summary.ReviewCount)
}

func TestAverageRatingNoReviews(t *testing.T) {
	repo := NewMemRepository()

	summary, err := repo.AverageRating(context.Background(), 999)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestUpdateByReviewID(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	id, err := repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 3.0, ReviewDate: "2024-01-01"})
	require.NoError(t, err)

	err = repo.Update(ctx, id, map[string]any{"overall_rating": 4.5, "promotion_ready": true})
	require.NoError(t, err)

	rows, err := repo.ForEmployee(ctx, 101)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4.5, rows[0].OverallRating)
	assert.Equal(t, true, rows[0].Extra["promotion_ready"])

	err = repo.Update(ctx, 999, map[string]any{"overall_rating": 1.0})
	assert.ErrorIs(t, err, dto.ErrNotFound)
}

func TestUpdateCoercesJSONNumbers(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	id, err := repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, OverallRating: 3.0, ReviewDate: "2024-01-01"})
	require.NoError(t, err)

	// json.Unmarshal into map[string]any yields float64 for every number.
	err = repo.Update(ctx, id, map[string]any{
		"employee_id":    float64(102),
		"overall_rating": float64(4),
	})
	require.NoError(t, err)

	rows, err := repo.ForEmployee(ctx, 102)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4.0, rows[0].OverallRating)

	old, err := repo.ForEmployee(ctx, 101)
	require.NoError(t, err)
	assert.Empty(t, old)
}

func TestDeleteByReviewID(t *testing.T) {
	repo := NewMemRepository()
	ctx := context.Background()

	id, err := repo.Submit(ctx, dto.PerformanceReview{EmployeeID: 101, ReviewDate: "2024-01-01"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, id))
	assert.ErrorIs(t, repo.Delete(ctx, id), dto.ErrNotFound)

	rows, err := repo.ForEmployee(ctx, 101)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
