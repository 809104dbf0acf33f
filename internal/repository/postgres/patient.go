package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/YHOUDAJ/oncomanager-morocco/internal/model"
	"github.com/YHOUDAJ/oncomanager-morocco/internal/repository"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{NewBaseRepository(db)}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, last_name, first_name, birth_date, sex, national_id,
			phone, secondary_phone, email, address, city,
			national_insurance_number, insurer_name, insurer_policy_number,
			blood_type, allergies, medical_history, family_history,
			primary_care_physician, primary_diagnosis, cancer_discovery_date,
			stage, histological_type, created_at, updated_at,
			created_by_user_id, clinic_id, is_archived
		) VALUES (
			:id, :last_name, :first_name, :birth_date, :sex, :national_id,
			:phone, :secondary_phone, :email, :address, :city,
			:national_insurance_number, :insurer_name, :insurer_policy_number,
			:blood_type, :allergies, :medical_history, :family_history,
			:primary_care_physician, :primary_diagnosis, :cancer_discovery_date,
			:stage, :histological_type, :created_at, :updated_at,
			:created_by_user_id, :clinic_id, :is_archived
		)
	`
	_, err := r.GetDB().NamedExecContext(ctx, query, patient)
	if err != nil {
		if isDuplicateNationalID(err) {
			return repository.ErrDuplicateNationalID
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT * FROM patients WHERE id = $1`
	var patient model.Patient
	if err := r.GetDB().GetContext(ctx, &patient, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients SET
			last_name = :last_name,
			first_name = :first_name,
			birth_date = :birth_date,
			sex = :sex,
			national_id = :national_id,
			phone = :phone,
			secondary_phone = :secondary_phone,
			email = :email,
			address = :address,
			city = :city,
			national_insurance_number = :national_insurance_number,
			insurer_name = :insurer_name,
			insurer_policy_number = :insurer_policy_number,
			blood_type = :blood_type,
			allergies = :allergies,
			medical_history = :medical_history,
			family_history = :family_history,
			primary_care_physician = :primary_care_physician,
			primary_diagnosis = :primary_diagnosis,
			cancer_discovery_date = :cancer_discovery_date,
			stage = :stage,
			histological_type = :histological_type,
			updated_at = :updated_at
		WHERE id = :id AND is_archived = FALSE
	`
	result, err := r.GetDB().NamedExecContext(ctx, query, patient)
	if err != nil {
		if isDuplicateNationalID(err) {
			return repository.ErrDuplicateNationalID
		}
		return fmt.Errorf("failed to update patient: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *patientRepository) Archive(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE patients
		SET is_archived = TRUE, updated_at = NOW()
		WHERE id = $1 AND is_archived = FALSE
	`
	result, err := r.GetDB().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to archive patient: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to archive patient: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, q *model.PatientQuery) ([]*model.Patient, error) {
	where, args := buildPatientWhere(q)

	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	// SortColumn is restricted to the compiler's allow-list upstream;
	// it is never raw client input.
	query := fmt.Sprintf(
		`SELECT * FROM patients WHERE %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		where, q.SortColumn, dir, len(args)+1, len(args)+2,
	)
	args = append(args, q.Limit, q.Offset)

	patients := []*model.Patient{}
	if err := r.GetDB().SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) Count(ctx context.Context, q *model.PatientQuery) (int, error) {
	where, args := buildPatientWhere(q)

	var total int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM patients WHERE %s`, where)
	if err := r.GetDB().GetContext(ctx, &total, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return total, nil
}

func (r *patientRepository) FindIDByNationalID(ctx context.Context, nationalID string) (uuid.UUID, bool, error) {
	query := `SELECT id FROM patients WHERE national_id = $1`
	var id uuid.UUID
	err := r.GetDB().GetContext(ctx, &id, query, nationalID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to look up national id: %w", err)
	}
	return id, true, nil
}

func buildPatientWhere(q *model.PatientQuery) (string, []interface{}) {
	conds := []string{"is_archived = FALSE"}
	args := []interface{}{}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(last_name ILIKE $%d OR first_name ILIKE $%d OR national_id ILIKE $%d OR phone LIKE $%d)",
			n, n, n, n,
		))
	}

	if q.Sex != "" {
		args = append(args, q.Sex)
		conds = append(conds, fmt.Sprintf("sex = $%d", len(args)))
	}

	if q.City != "" {
		args = append(args, "%"+q.City+"%")
		conds = append(conds, fmt.Sprintf("city ILIKE $%d", len(args)))
	}

	if q.HasDiagnosis != nil {
		if *q.HasDiagnosis {
			conds = append(conds, "primary_diagnosis IS NOT NULL")
		} else {
			conds = append(conds, "primary_diagnosis IS NULL")
		}
	}

	return strings.Join(conds, " AND "), args
}

func isDuplicateNationalID(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == "patients_national_id_key"
	}
	return false
}
