package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zombar/wordwise/internal/models"
	"github.com/zombar/wordwise/internal/readability"
)

const analysisColumns = `id, text, format, target_level, status, grade_level, reading_level,
	feedback, last_error, created_at, updated_at`

// SaveAnalysis inserts an analysis or replaces the stored row with the same ID.
// CreatedAt is set when zero and UpdatedAt is always refreshed. Times are
// stored in UTC.
func (db *DB) SaveAnalysis(ctx context.Context, analysis *models.Analysis) error {
	var feedback sql.NullString
	if analysis.Feedback != nil {
		feedbackJSON, err := json.Marshal(analysis.Feedback)
		if err != nil {
			return fmt.Errorf("failed to marshal feedback: %w", err)
		}
		feedback = sql.NullString{String: string(feedbackJSON), Valid: true}
	}

	now := time.Now().UTC()
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = now
	}
	analysis.CreatedAt = analysis.CreatedAt.UTC()
	analysis.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx, db.rebind(`
		INSERT INTO analyses (`+analysisColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			text = excluded.text,
			format = excluded.format,
			target_level = excluded.target_level,
			status = excluded.status,
			grade_level = excluded.grade_level,
			reading_level = excluded.reading_level,
			feedback = excluded.feedback,
			last_error = excluded.last_error,
			updated_at = excluded.updated_at
	`), analysis.ID, analysis.Text, string(analysis.Format), string(analysis.TargetLevel),
		string(analysis.Status), analysis.GradeLevel, string(analysis.ReadingLevel),
		feedback, analysis.LastError, analysis.CreatedAt, analysis.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	return nil
}

// GetAnalysis retrieves an analysis by ID
func (db *DB) GetAnalysis(ctx context.Context, id string) (*models.Analysis, error) {
	row := db.conn.QueryRowContext(ctx, db.rebind(`
		SELECT `+analysisColumns+`
		FROM analyses
		WHERE id = ?
	`), id)

	analysis, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return analysis, nil
}

// ListAnalyses retrieves analyses newest first with pagination
func (db *DB) ListAnalyses(ctx context.Context, limit, offset int) ([]*models.Analysis, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(`
		SELECT `+analysisColumns+`
		FROM analyses
		ORDER BY created_at DESC, id
		LIMIT ? OFFSET ?
	`), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	return collectAnalyses(rows)
}

// GetAnalysesByReadingLevel retrieves scored analyses at a reading level,
// newest first.
func (db *DB) GetAnalysesByReadingLevel(ctx context.Context, level readability.ReadingLevel, limit int) ([]*models.Analysis, error) {
	rows, err := db.conn.QueryContext(ctx, db.rebind(`
		SELECT `+analysisColumns+`
		FROM analyses
		WHERE reading_level = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`), string(level), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses by reading level: %w", err)
	}
	return collectAnalyses(rows)
}

// CountAnalyses returns the number of stored analyses.
func (db *DB) CountAnalyses(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyses").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return n, nil
}

// MarkFailed records a terminal processing error for an analysis.
func (db *DB) MarkFailed(ctx context.Context, id string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	result, err := db.conn.ExecContext(ctx, db.rebind(`
		UPDATE analyses SET status = ?, last_error = ?, updated_at = ?
		WHERE id = ?
	`), string(models.StatusFailed), msg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark analysis failed: %w", err)
	}
	return requireRow(result)
}

// DeleteAnalysis deletes an analysis by ID
func (db *DB) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx, db.rebind("DELETE FROM analyses WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*models.Analysis, error) {
	var (
		a            models.Analysis
		format       string
		targetLevel  string
		status       string
		readingLevel string
		feedback     sql.NullString
	)

	err := row.Scan(&a.ID, &a.Text, &format, &targetLevel, &status, &a.GradeLevel,
		&readingLevel, &feedback, &a.LastError, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	a.Format = models.DocumentFormat(format)
	a.TargetLevel = readability.TargetLevel(targetLevel)
	a.Status = models.AnalysisStatus(status)
	a.ReadingLevel = readability.ReadingLevel(readingLevel)

	if feedback.Valid {
		var fb models.Feedback
		if err := json.Unmarshal([]byte(feedback.String), &fb); err != nil {
			return nil, fmt.Errorf("failed to unmarshal feedback: %w", err)
		}
		a.Feedback = &fb
	}

	return &a, nil
}

func collectAnalyses(rows *sql.Rows) ([]*models.Analysis, error) {
	defer rows.Close()

	analyses := []*models.Analysis{}
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		analyses = append(analyses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return analyses, nil
}
