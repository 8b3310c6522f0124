package database

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zombar/wordwise/internal/models"
	"github.com/zombar/wordwise/internal/readability"
)

const testText = "The cat sat on the mat. It was a sunny day."

func createTestAnalysis(id string, createdAt time.Time) *models.Analysis {
	return &models.Analysis{
		ID:          id,
		Text:        testText,
		Format:      models.FormatPlain,
		TargetLevel: readability.HighSchool,
		Status:      models.StatusPending,
		CreatedAt:   createdAt,
	}
}

func assessed(a *models.Analysis) *models.Analysis {
	fb := models.Feedback{
		OverallScore:        40,
		Strengths:           []string{"Text is easy to read"},
		AreasForImprovement: []string{"Sentences are short and choppy"},
		Recommendations:     []string{"Combine short sentences to show how your ideas connect"},
		Summary:             "Your writing is at a grade 1 level.",
		Metrics:             readability.CalculateMetrics(a.Text, a.TargetLevel),
	}
	a.Status = models.StatusAssessed
	a.ApplyFeedback(fb)
	return a
}

func TestSaveAndGetAnalysis(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		analysis := assessed(createTestAnalysis("test-001", time.Time{}))

		require.NoError(t, db.SaveAnalysis(ctx, analysis))
		assert.False(t, analysis.CreatedAt.IsZero(), "CreatedAt should be set on save")

		got, err := db.GetAnalysis(ctx, "test-001")
		require.NoError(t, err)

		assert.Equal(t, analysis.ID, got.ID)
		assert.Equal(t, analysis.Text, got.Text)
		assert.Equal(t, models.FormatPlain, got.Format)
		assert.Equal(t, readability.HighSchool, got.TargetLevel)
		assert.Equal(t, models.StatusAssessed, got.Status)
		assert.Equal(t, 1, got.GradeLevel)
		assert.Equal(t, readability.Elementary, got.ReadingLevel)
		assert.WithinDuration(t, analysis.CreatedAt, got.CreatedAt, time.Millisecond)

		require.NotNil(t, got.Feedback)
		assert.Equal(t, *analysis.Feedback, *got.Feedback)
	})
}

func TestSaveAnalysisWithoutFeedback(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		require.NoError(t, db.SaveAnalysis(ctx, createTestAnalysis("pending-1", time.Time{})))

		got, err := db.GetAnalysis(ctx, "pending-1")
		require.NoError(t, err)
		assert.Nil(t, got.Feedback)
		assert.Equal(t, models.StatusPending, got.Status)
		assert.Empty(t, got.ReadingLevel)
	})
}

func TestSaveAnalysisUpserts(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		analysis := createTestAnalysis("upsert-1", time.Now().Add(-time.Hour))
		require.NoError(t, db.SaveAnalysis(ctx, analysis))
		created := analysis.CreatedAt

		analysis = assessed(analysis)
		analysis.Status = models.StatusCompleted
		require.NoError(t, db.SaveAnalysis(ctx, analysis))

		got, err := db.GetAnalysis(ctx, "upsert-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, got.Status)
		assert.NotNil(t, got.Feedback)
		assert.WithinDuration(t, created, got.CreatedAt, time.Millisecond)
		assert.True(t, got.UpdatedAt.After(got.CreatedAt))

		n, err := db.CountAnalyses(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestGetAnalysisNotFound(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *DB) {
		_, err := db.GetAnalysis(context.Background(), "nonexistent")
		assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
	})
}

func TestListAnalyses(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		base := time.Now().UTC().Add(-time.Hour)
		for i := 1; i <= 5; i++ {
			a := createTestAnalysis(fmt.Sprintf("test-%d", i), base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, db.SaveAnalysis(ctx, a))
		}

		page, err := db.ListAnalyses(ctx, 3, 0)
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, "test-5", page[0].ID, "newest first")
		assert.Equal(t, "test-3", page[2].ID)

		page, err = db.ListAnalyses(ctx, 3, 3)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "test-1", page[1].ID)

		page, err = db.ListAnalyses(ctx, 3, 10)
		require.NoError(t, err)
		assert.NotNil(t, page)
		assert.Empty(t, page)
	})
}

func TestGetAnalysesByReadingLevel(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *DB) {
		ctx := context.Background()

		easy := assessed(createTestAnalysis("easy-1", time.Time{}))
		require.NoError(t, db.SaveAnalysis(ctx, easy))

		hard := createTestAnalysis("hard-1", time.Time{})
		hard.Text = "We need to analyze and evaluate the significant evidence to demonstrate our hypothesis."
		hard = assessed(hard)
		require.NoError(t, db.SaveAnalysis(ctx, hard))

		require.NoError(t, db.SaveAnalysis(ctx, createTestAnalysis("pending-1", time.Time{})))

		got, err := db.GetAnalysesByReadingLevel(ctx, readability.Elementary, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "easy-1", got[0].ID)

		got, err = db.GetAnalysesByReadingLevel(ctx, readability.Adult, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "hard-1", got[0].ID)

		got, err = db.GetAnalysesByReadingLevel(ctx, readability.MiddleSchool, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestMarkFailed(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		require.NoError(t, db.SaveAnalysis(ctx, createTestAnalysis("fail-1", time.Time{})))

		require.NoError(t, db.MarkFailed(ctx, "fail-1", errors.New("ollama unreachable")))

		got, err := db.GetAnalysis(ctx, "fail-1")
		require.NoError(t, err)
		assert.Equal(t, models.StatusFailed, got.Status)
		assert.Equal(t, "ollama unreachable", got.LastError)

		err = db.MarkFailed(ctx, "missing", errors.New("x"))
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestDeleteAnalysis(t *testing.T) {
	forEachDialect(t, func(t *testing.T, db *DB) {
		ctx := context.Background()
		require.NoError(t, db.SaveAnalysis(ctx, createTestAnalysis("delete-1", time.Time{})))

		require.NoError(t, db.DeleteAnalysis(ctx, "delete-1"))

		_, err := db.GetAnalysis(ctx, "delete-1")
		assert.True(t, errors.Is(err, ErrNotFound))

		err = db.DeleteAnalysis(ctx, "delete-1")
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}
