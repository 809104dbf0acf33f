package patient

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/YHOUDAJ/oncomanager-morocco/internal/model"
	"github.com/YHOUDAJ/oncomanager-morocco/internal/repository"
	apperrors "github.com/YHOUDAJ/oncomanager-morocco/pkg/errors"
	"github.com/YHOUDAJ/oncomanager-morocco/pkg/logger"
)

const (
	recentConsultationLimit = 5

	detailCacheTTL     = 5 * time.Minute
	detailCacheCleanup = 10 * time.Minute
)

type RecordServicer interface {
	Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	Get(ctx context.Context, id uuid.UUID) (*model.PatientDetail, error)
	List(ctx context.Context, params *model.PatientListParams) ([]*model.Patient, int, *model.PatientQuery, error)
	Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	Archive(ctx context.Context, id uuid.UUID) error
}

// Config carries the server-assigned ownership defaults. Tenant
// scoping and authenticated sessions are out of scope; every record is
// attributed to these identities.
type Config struct {
	DefaultUserID   string
	DefaultClinicID string
}

type Service struct {
	repo          repository.PatientRepository
	consultations repository.ConsultationRepository
	outbox        repository.OutboxRepository
	cache         *gocache.Cache
	logger        *logger.Logger
	cfg           Config
	now           func() time.Time
}

func NewService(
	repo repository.PatientRepository,
	consultations repository.ConsultationRepository,
	outbox repository.OutboxRepository,
	log *logger.Logger,
	cfg Config,
) *Service {
	return &Service{
		repo:          repo,
		consultations: consultations,
		outbox:        outbox,
		cache:         gocache.New(detailCacheTTL, detailCacheCleanup),
		logger:        log,
		cfg:           cfg,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	now := s.now()

	patient, fieldErrs := validateCreate(now, req)
	if fieldErrs != nil {
		return nil, apperrors.NewValidation(fieldErrs)
	}

	if patient.NationalID != nil {
		taken, err := s.nationalIDTaken(ctx, *patient.NationalID, nil)
		if err != nil {
			return nil, apperrors.NewUnexpected(err)
		}
		if taken {
			return nil, apperrors.NewConflict("a patient with this national ID already exists")
		}
	}

	patient.ID = uuid.New()
	patient.CreatedAt = now
	patient.UpdatedAt = now
	patient.CreatedByUserID = s.cfg.DefaultUserID
	patient.ClinicID = s.cfg.DefaultClinicID

	if err := s.repo.Create(ctx, patient); err != nil {
		// The unique index is the real arbiter; the guard above only
		// loses under a concurrent create with the same national ID.
		if errors.Is(err, repository.ErrDuplicateNationalID) {
			return nil, apperrors.NewConflict("a patient with this national ID already exists")
		}
		return nil, apperrors.NewUnexpected(err)
	}

	patient.Age = patient.AgeAt(now)
	s.enqueueEvent(ctx, model.EventPatientCreated, patient)
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.PatientDetail, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		detail := cached.(model.PatientDetail)
		detail.Age = detail.AgeAt(s.now())
		return &detail, nil
	}

	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("patient")
		}
		return nil, apperrors.NewUnexpected(err)
	}
	if patient.IsArchived {
		return nil, apperrors.NewGone("this patient has been archived")
	}

	consultations, err := s.consultations.ListRecent(ctx, id, recentConsultationLimit)
	if err != nil {
		return nil, apperrors.NewUnexpected(err)
	}
	count, err := s.consultations.CountForPatient(ctx, id)
	if err != nil {
		return nil, apperrors.NewUnexpected(err)
	}

	detail := model.PatientDetail{
		Patient:           *patient,
		Consultations:     consultations,
		ConsultationCount: count,
	}
	detail.Age = detail.AgeAt(s.now())

	s.cache.Set(id.String(), detail, gocache.DefaultExpiration)
	return &detail, nil
}

func (s *Service) List(ctx context.Context, params *model.PatientListParams) ([]*model.Patient, int, *model.PatientQuery, error) {
	query, fieldErrs := compileListQuery(params)
	if fieldErrs != nil {
		return nil, 0, nil, apperrors.NewValidation(fieldErrs)
	}

	patients, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, 0, nil, apperrors.NewUnexpected(err)
	}
	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return nil, 0, nil, apperrors.NewUnexpected(err)
	}

	now := s.now()
	for _, p := range patients {
		p.Age = p.AgeAt(now)
	}
	return patients, total, query, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("patient")
		}
		return nil, apperrors.NewUnexpected(err)
	}
	if existing.IsArchived {
		return nil, apperrors.NewGone("an archived patient cannot be updated")
	}

	now := s.now()
	updated := *existing
	if fieldErrs := applyUpdate(now, &updated, req); fieldErrs != nil {
		return nil, apperrors.NewValidation(fieldErrs)
	}

	if updated.NationalID != nil && nationalIDChanged(existing.NationalID, updated.NationalID) {
		taken, err := s.nationalIDTaken(ctx, *updated.NationalID, &id)
		if err != nil {
			return nil, apperrors.NewUnexpected(err)
		}
		if taken {
			return nil, apperrors.NewConflict("a patient with this national ID already exists")
		}
	}

	updated.UpdatedAt = now
	if err := s.repo.Update(ctx, &updated); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateNationalID):
			return nil, apperrors.NewConflict("a patient with this national ID already exists")
		case errors.Is(err, repository.ErrNotFound):
			// Archived between the fetch and the write.
			return nil, apperrors.NewGone("an archived patient cannot be updated")
		default:
			return nil, apperrors.NewUnexpected(err)
		}
	}

	s.cache.Delete(id.String())
	updated.Age = updated.AgeAt(now)
	s.enqueueEvent(ctx, model.EventPatientUpdated, &updated)
	return &updated, nil
}

func (s *Service) Archive(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("patient")
		}
		return apperrors.NewUnexpected(err)
	}
	if existing.IsArchived {
		return apperrors.NewGone("this patient is already archived")
	}

	if err := s.repo.Archive(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewGone("this patient is already archived")
		}
		return apperrors.NewUnexpected(err)
	}

	s.cache.Delete(id.String())
	s.enqueueEvent(ctx, model.EventPatientArchived, map[string]interface{}{"id": id})
	return nil
}

// nationalIDTaken reports whether another record already holds the
// candidate national ID. On update, excludeID filters out the record
// being updated so a self-match is not a conflict.
func (s *Service) nationalIDTaken(ctx context.Context, nationalID string, excludeID *uuid.UUID) (bool, error) {
	holderID, found, err := s.repo.FindIDByNationalID(ctx, nationalID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	if excludeID != nil && holderID == *excludeID {
		return false, nil
	}
	return true, nil
}

func nationalIDChanged(prev, next *string) bool {
	if prev == nil {
		return true
	}
	return *prev != *next
}

// enqueueEvent records a write event in the outbox. Failures are
// logged and never fail the originating request.
func (s *Service) enqueueEvent(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error(err, "failed to marshal outbox payload", "event_type", eventType)
		return
	}
	if err := s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   data,
	}); err != nil {
		s.logger.Error(err, "failed to enqueue outbox event", "event_type", eventType)
	}
}
