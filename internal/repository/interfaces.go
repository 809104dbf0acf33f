package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/YHOUDAJ/oncomanager-morocco/internal/model"
)

// Sentinel errors surfaced by the storage layer. Services translate
// these into the API error taxonomy.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateNationalID = errors.New("national id already in use")
)

type (
	// PatientRepository owns all persistent patient state.
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		// Archive flips is_archived on a live record; returns
		// ErrNotFound when the record is missing or already archived.
		Archive(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, q *model.PatientQuery) ([]*model.Patient, error)
		Count(ctx context.Context, q *model.PatientQuery) (int, error)
		// FindIDByNationalID searches all records, archived included.
		FindIDByNationalID(ctx context.Context, nationalID string) (uuid.UUID, bool, error)
	}

	ConsultationRepository interface {
		ListRecent(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Consultation, error)
		CountForPatient(ctx context.Context, patientID uuid.UUID) (int, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
