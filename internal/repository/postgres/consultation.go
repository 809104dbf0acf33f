package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/YHOUDAJ/oncomanager-morocco/internal/model"
	"github.com/YHOUDAJ/oncomanager-morocco/internal/repository"
)

type consultationRepository struct {
	BaseRepository
}

func NewConsultationRepository(db *sqlx.DB) repository.ConsultationRepository {
	return &consultationRepository{NewBaseRepository(db)}
}

func (r *consultationRepository) ListRecent(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Consultation, error) {
	query := `
		SELECT id, patient_id, date, reason, conclusion, created_at
		FROM consultations
		WHERE patient_id = $1
		ORDER BY date DESC
		LIMIT $2
	`
	consultations := []*model.Consultation{}
	if err := r.GetDB().SelectContext(ctx, &consultations, query, patientID, limit); err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (r *consultationRepository) CountForPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM consultations WHERE patient_id = $1`
	if err := r.GetDB().GetContext(ctx, &total, query, patientID); err != nil {
		return 0, fmt.Errorf("failed to count consultations: %w", err)
	}
	return total, nil
}
