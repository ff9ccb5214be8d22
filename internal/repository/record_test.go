package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"carewatch/internal/models"
)

func setupMock(t *testing.T) (*RecordRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := NewRecordRepository(db, zap.NewNop())
	return repo, mock, func() { db.Close() }
}

func TestAppendRecord_InsertsAndReturnsRowRef(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO monitoring_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rowRef, err := repo.AppendRecord(context.Background(), Record{
		Kind:        "phone",
		Name:        "김철수",
		ServiceType: models.ServiceGeneral,
		Status:      "risk",
		RiskDetails: "만족도 저하",
		Indicators:  map[string]string{"gen_1": "가끔 거름"},
	})
	require.NoError(t, err)
	_, parseErr := uuid.Parse(rowRef)
	assert.NoError(t, parseErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendRecord_KeepsCallerRowRef(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	ref := uuid.New().String()
	mock.ExpectExec("INSERT INTO monitoring_records").
		WillReturnResult(sqlmock.NewResult(1, 1))

	rowRef, err := repo.AppendRecord(context.Background(), Record{RowRef: ref, Kind: "visit"})
	require.NoError(t, err)
	assert.Equal(t, ref, rowRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendRecord_WrapsSinkFailure(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO monitoring_records").
		WillReturnError(errors.New("connection refused"))

	_, err := repo.AppendRecord(context.Background(), Record{Kind: "survey", Name: "박영희"})
	assert.ErrorIs(t, err, ErrSinkUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateField_WhitelistedColumn(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	ref := uuid.New().String()
	mock.ExpectExec("UPDATE monitoring_records SET visit_grade").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateField(context.Background(), ref, "visit_grade", "위기")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateField_RejectsUnknownColumn(t *testing.T) {
	repo, _, cleanup := setupMock(t)
	defer cleanup()

	err := repo.UpdateField(context.Background(), "ref", "name; DROP TABLE", "x")
	assert.ErrorIs(t, err, ErrFieldNotAllowed)
}

func TestUpdateField_NotFound(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE monitoring_records SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateField(context.Background(), "missing-ref", "status", "completed")
	assert.ErrorIs(t, err, ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateResponse(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	ref := uuid.New().String()
	mock.ExpectExec("UPDATE monitoring_records").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateResponse(context.Background(), ref, "주 1회 방문으로 조정하였습니다", "행복복지관 담당자")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecord(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	ref := uuid.New().String()
	rows := sqlmock.NewRows([]string{
		"row_ref", "kind", "name", "gender", "birth_year", "agency",
		"service_type", "survey_date", "status", "risk_details",
		"visit_grade", "action_memo", "special_notes", "indicators_json",
	}).AddRow(ref, "visit", "김철수", "남", 1951, "행복복지관",
		"general", "2026-03-10", "risk", "만족도 저하",
		"주의", "memo", "", []byte(`{"gen_1":"불규칙한 식사"}`))

	mock.ExpectQuery("SELECT (.+) FROM monitoring_records").
		WithArgs(ref).
		WillReturnRows(rows)

	rec, err := repo.GetRecord(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "김철수", rec.Name)
	assert.Equal(t, models.GradeCaution, rec.VisitGrade)
	assert.Equal(t, "불규칙한 식사", rec.Indicators["gen_1"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRecord_NotFound(t *testing.T) {
	repo, mock, cleanup := setupMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT (.+) FROM monitoring_records").
		WillReturnRows(sqlmock.NewRows([]string{"row_ref"}))

	_, err := repo.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
