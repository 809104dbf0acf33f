package patient

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/YHOUDAJ/oncomanager-morocco/internal/model"
	"github.com/YHOUDAJ/oncomanager-morocco/internal/repository"
)

var _ repository.PatientRepository = (*mockPatientRepo)(nil)

type mockPatientRepo struct {
	CreateFunc             func(ctx context.Context, patient *model.Patient) error
	GetFunc                func(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	UpdateFunc             func(ctx context.Context, patient *model.Patient) error
	ArchiveFunc            func(ctx context.Context, id uuid.UUID) error
	ListFunc               func(ctx context.Context, q *model.PatientQuery) ([]*model.Patient, error)
	CountFunc              func(ctx context.Context, q *model.PatientQuery) (int, error)
	FindIDByNationalIDFunc func(ctx context.Context, nationalID string) (uuid.UUID, bool, error)

	createCalls  int
	updateCalls  int
	archiveCalls int
}

func (m *mockPatientRepo) Create(ctx context.Context, patient *model.Patient) error {
	m.createCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, patient)
	}
	return nil
}

func (m *mockPatientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockPatientRepo) Update(ctx context.Context, patient *model.Patient) error {
	m.updateCalls++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, patient)
	}
	return nil
}

func (m *mockPatientRepo) Archive(ctx context.Context, id uuid.UUID) error {
	m.archiveCalls++
	if m.ArchiveFunc != nil {
		return m.ArchiveFunc(ctx, id)
	}
	return nil
}

func (m *mockPatientRepo) List(ctx context.Context, q *model.PatientQuery) ([]*model.Patient, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, q)
	}
	return nil, nil
}

func (m *mockPatientRepo) Count(ctx context.Context, q *model.PatientQuery) (int, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, q)
	}
	return 0, nil
}

func (m *mockPatientRepo) FindIDByNationalID(ctx context.Context, nationalID string) (uuid.UUID, bool, error) {
	if m.FindIDByNationalIDFunc != nil {
		return m.FindIDByNationalIDFunc(ctx, nationalID)
	}
	return uuid.Nil, false, nil
}

var _ repository.ConsultationRepository = (*mockConsultationRepo)(nil)

type mockConsultationRepo struct {
	ListRecentFunc      func(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Consultation, error)
	CountForPatientFunc func(ctx context.Context, patientID uuid.UUID) (int, error)
}

func (m *mockConsultationRepo) ListRecent(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Consultation, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, patientID, limit)
	}
	return nil, nil
}

func (m *mockConsultationRepo) CountForPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	if m.CountForPatientFunc != nil {
		return m.CountForPatientFunc(ctx, patientID)
	}
	return 0, nil
}

var _ repository.OutboxRepository = (*mockOutboxRepo)(nil)

type mockOutboxRepo struct {
	CreateFunc func(ctx context.Context, event *model.OutboxEvent) error

	events []*model.OutboxEvent
}

func (m *mockOutboxRepo) Create(ctx context.Context, event *model.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, event)
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, errors.New("not implemented")
}

func (m *mockOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt *time.Time) error {
	return errors.New("not implemented")
}

func (m *mockOutboxRepo) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, errors.New("not implemented")
}
