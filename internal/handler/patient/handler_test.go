package patient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YHOUDAJ/oncomanager-morocco/internal/model"
	patientService "github.com/YHOUDAJ/oncomanager-morocco/internal/service/patient"
	apperrors "github.com/YHOUDAJ/oncomanager-morocco/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	CreateFunc  func(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error)
	GetFunc     func(ctx context.Context, id uuid.UUID) (*model.PatientDetail, error)
	ListFunc    func(ctx context.Context, params *model.PatientListParams) ([]*model.Patient, int, *model.PatientQuery, error)
	UpdateFunc  func(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	ArchiveFunc func(ctx context.Context, id uuid.UUID) error
}

var _ patientService.RecordServicer = (*stubService)(nil)

func (s *stubService) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	return s.CreateFunc(ctx, req)
}

func (s *stubService) Get(ctx context.Context, id uuid.UUID) (*model.PatientDetail, error) {
	return s.GetFunc(ctx, id)
}

func (s *stubService) List(ctx context.Context, params *model.PatientListParams) ([]*model.Patient, int, *model.PatientQuery, error) {
	return s.ListFunc(ctx, params)
}

func (s *stubService) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	return s.UpdateFunc(ctx, id, req)
}

func (s *stubService) Archive(ctx context.Context, id uuid.UUID) error {
	return s.ArchiveFunc(ctx, id)
}

func newTestRouter(svc patientService.RecordServicer) *gin.Engine {
	engine := gin.New()
	NewHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func samplePatient() *model.Patient {
	return &model.Patient{
		ID:        uuid.New(),
		LastName:  "Alaoui",
		FirstName: "Fatima",
		BirthDate: time.Date(1975, time.April, 22, 0, 0, 0, 0, time.UTC),
		Sex:       model.SexFemale,
		Phone:     "0612345678",
		Age:       48,
	}
}

func TestCreatePatient(t *testing.T) {
	created := samplePatient()
	svc := &stubService{
		CreateFunc: func(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
			assert.Equal(t, "Alaoui", req.LastName)
			return created, nil
		},
	}

	body, _ := json.Marshal(map[string]string{
		"last_name":  "Alaoui",
		"first_name": "Fatima",
		"birth_date": "1975-04-22",
		"sex":        "FEMALE",
		"phone":      "0612345678",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", bytes.NewReader(body))
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), created.ID.String())
}

func TestCreatePatientMalformedBody(t *testing.T) {
	svc := &stubService{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", bytes.NewBufferString("{not json"))
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePatientValidationError(t *testing.T) {
	svc := &stubService{
		CreateFunc: func(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
			return nil, apperrors.NewValidation(map[string][]string{
				"phone": {"must be at least 10 characters"},
			})
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", bytes.NewBufferString("{}"))
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "phone")
}

func TestCreatePatientConflict(t *testing.T) {
	svc := &stubService{
		CreateFunc: func(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
			return nil, apperrors.NewConflict("a patient with this national ID already exists")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/patients", bytes.NewBufferString("{}"))
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetPatient(t *testing.T) {
	detail := &model.PatientDetail{
		Patient:           *samplePatient(),
		Consultations:     []*model.Consultation{},
		ConsultationCount: 3,
	}
	svc := &stubService{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*model.PatientDetail, error) {
			assert.Equal(t, detail.ID, id)
			return detail, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+detail.ID.String(), nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"consultation_count":3`)
}

func TestGetPatientInvalidID(t *testing.T) {
	svc := &stubService{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/not-a-uuid", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPatientNotFound(t *testing.T) {
	svc := &stubService{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*model.PatientDetail, error) {
			return nil, apperrors.NewNotFound("patient")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+uuid.NewString(), nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetPatientArchived(t *testing.T) {
	svc := &stubService{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*model.PatientDetail, error) {
			return nil, apperrors.NewGone("this patient has been archived")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients/"+uuid.NewString(), nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestListPatients(t *testing.T) {
	svc := &stubService{
		ListFunc: func(ctx context.Context, params *model.PatientListParams) ([]*model.Patient, int, *model.PatientQuery, error) {
			assert.Equal(t, "alaoui", params.Q)
			assert.Equal(t, "2", params.Page)
			return []*model.Patient{samplePatient()}, 41, &model.PatientQuery{Page: 2, Limit: 20}, nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients?q=alaoui&page=2", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":41`)
	assert.Contains(t, w.Body.String(), `"total_pages":3`)
}

func TestListPatientsBadSort(t *testing.T) {
	svc := &stubService{
		ListFunc: func(ctx context.Context, params *model.PatientListParams) ([]*model.Patient, int, *model.PatientQuery, error) {
			return nil, 0, nil, apperrors.NewValidation(map[string][]string{
				"sort_by": {"must be one of: created_at, updated_at, last_name, first_name, birth_date, city"},
			})
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/patients?sort_by=salary", nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "sort_by")
}

func TestUpdatePatient(t *testing.T) {
	updated := samplePatient()
	updated.LastName = "Bennani"
	svc := &stubService{
		UpdateFunc: func(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
			require.NotNil(t, req.LastName)
			assert.Equal(t, "Bennani", *req.LastName)
			return updated, nil
		},
	}

	body, _ := json.Marshal(map[string]string{"last_name": "Bennani"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/patients/"+updated.ID.String(), bytes.NewReader(body))
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bennani")
}

func TestUpdateArchivedPatient(t *testing.T) {
	svc := &stubService{
		UpdateFunc: func(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
			return nil, apperrors.NewGone("an archived patient cannot be updated")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/patients/"+uuid.NewString(), bytes.NewBufferString("{}"))
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusGone, w.Code)
}

func TestArchivePatient(t *testing.T) {
	archived := uuid.New()
	svc := &stubService{
		ArchiveFunc: func(ctx context.Context, id uuid.UUID) error {
			assert.Equal(t, archived, id)
			return nil
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/patients/"+archived.String(), nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "archived successfully")
}

func TestArchivePatientTwice(t *testing.T) {
	svc := &stubService{
		ArchiveFunc: func(ctx context.Context, id uuid.UUID) error {
			return apperrors.NewGone("this patient is already archived")
		},
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/patients/"+uuid.NewString(), nil)
	newTestRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusGone, w.Code)
}
