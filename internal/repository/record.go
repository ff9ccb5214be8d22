// Package repository implements the persistence sink on PostgreSQL.
// Records are flattened into the monitoring_records table; structured
// sub-objects (indicators, verification evidence) are stored as JSON
// columns.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carewatch/internal/models"
)

var (
	// ErrSinkUnavailable wraps any database failure so callers can
	// count-and-continue during batch processing.
	ErrSinkUnavailable = errors.New("persistence sink unavailable")
	// ErrFieldNotAllowed is returned by UpdateField for a column
	// outside the whitelist.
	ErrFieldNotAllowed = errors.New("field is not updatable")
	// ErrRecordNotFound is returned when a row reference matches nothing.
	ErrRecordNotFound = errors.New("record not found")
)

// updatableFields whitelists the columns UpdateField may touch.
var updatableFields = map[string]bool{
	"status":        true,
	"risk_details":  true,
	"visit_grade":   true,
	"action_memo":   true,
	"special_notes": true,
}

// Record is one flattened row bound for the sink.
type Record struct {
	RowRef       string
	Kind         string // phone | visit | survey | interview
	Name         string
	Gender       string
	BirthYear    int
	Agency       string
	ServiceType  models.ServiceType
	SurveyDate   string
	Status       string
	RiskDetails  string
	VisitGrade   models.Grade
	ActionMemo   string
	SpecialNotes string
	Indicators   map[string]string
	Extra        map[string]any
}

// RecordRepository persists monitoring records.
type RecordRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRecordRepository creates a repository.
func NewRecordRepository(db *sql.DB, logger *zap.Logger) *RecordRepository {
	return &RecordRepository{db: db, logger: logger}
}

// AppendRecord inserts one record and returns its row reference. A
// missing RowRef gets a fresh UUID.
func (r *RecordRepository) AppendRecord(ctx context.Context, rec Record) (string, error) {
	if rec.RowRef == "" {
		rec.RowRef = uuid.New().String()
	}

	indicatorsJSON, err := json.Marshal(rec.Indicators)
	if err != nil {
		return "", fmt.Errorf("failed to marshal indicators: %w", err)
	}
	extraJSON, err := json.Marshal(rec.Extra)
	if err != nil {
		return "", fmt.Errorf("failed to marshal extra fields: %w", err)
	}

	query := `
		INSERT INTO monitoring_records (
			row_ref, kind, name, gender, birth_year, agency, service_type,
			survey_date, status, risk_details, visit_grade, action_memo,
			special_notes, indicators_json, extra_json, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = r.db.ExecContext(ctx, query,
		rec.RowRef, rec.Kind, rec.Name, rec.Gender, rec.BirthYear,
		rec.Agency, string(rec.ServiceType), rec.SurveyDate, rec.Status,
		rec.RiskDetails, string(rec.VisitGrade), rec.ActionMemo,
		rec.SpecialNotes, indicatorsJSON, extraJSON, time.Now(),
	)
	if err != nil {
		r.logger.Error("failed to append record",
			zap.String("row_ref", rec.RowRef),
			zap.String("kind", rec.Kind),
			zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}

	return rec.RowRef, nil
}

// UpdateField sets one whitelisted column on an existing record.
func (r *RecordRepository) UpdateField(ctx context.Context, rowRef, field, value string) error {
	if !updatableFields[field] {
		return fmt.Errorf("%w: %s", ErrFieldNotAllowed, field)
	}

	query := fmt.Sprintf(`UPDATE monitoring_records SET %s = $1, updated_at = $2 WHERE row_ref = $3`, field)
	result, err := r.db.ExecContext(ctx, query, value, time.Now(), rowRef)
	if err != nil {
		r.logger.Error("failed to update record field",
			zap.String("row_ref", rowRef),
			zap.String("field", field),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	if rows == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// UpdateResponse writes the agency answer-management fields on an
// existing record.
func (r *RecordRepository) UpdateResponse(ctx context.Context, rowRef, response, responder string) error {
	query := `
		UPDATE monitoring_records
		SET agency_response = $1, agency_responder = $2, responded_at = $3, updated_at = $3
		WHERE row_ref = $4
	`
	now := time.Now()
	result, err := r.db.ExecContext(ctx, query, response, responder, now, rowRef)
	if err != nil {
		r.logger.Error("failed to update agency response",
			zap.String("row_ref", rowRef),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}
	if rows == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// GetRecord loads one record by row reference.
func (r *RecordRepository) GetRecord(ctx context.Context, rowRef string) (*Record, error) {
	query := `
		SELECT row_ref, kind, name, gender, birth_year, agency, service_type,
		       survey_date, status, risk_details, visit_grade, action_memo,
		       special_notes, indicators_json
		FROM monitoring_records
		WHERE row_ref = $1
	`
	var rec Record
	var serviceType, grade string
	var indicatorsJSON []byte
	err := r.db.QueryRowContext(ctx, query, rowRef).Scan(
		&rec.RowRef, &rec.Kind, &rec.Name, &rec.Gender, &rec.BirthYear,
		&rec.Agency, &serviceType, &rec.SurveyDate, &rec.Status,
		&rec.RiskDetails, &grade, &rec.ActionMemo, &rec.SpecialNotes,
		&indicatorsJSON,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
	}

	rec.ServiceType = models.ServiceType(serviceType)
	rec.VisitGrade = models.Grade(grade)
	if len(indicatorsJSON) > 0 {
		if err := json.Unmarshal(indicatorsJSON, &rec.Indicators); err != nil {
			return nil, fmt.Errorf("failed to unmarshal indicators: %w", err)
		}
	}
	return &rec, nil
}
