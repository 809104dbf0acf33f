package model

import (
	"time"

	"github.com/google/uuid"
)

type Sex string

const (
	SexMale   Sex = "MALE"
	SexFemale Sex = "FEMALE"
)

func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

type BloodType string

const (
	BloodTypeAPositive  BloodType = "A_POSITIVE"
	BloodTypeANegative  BloodType = "A_NEGATIVE"
	BloodTypeBPositive  BloodType = "B_POSITIVE"
	BloodTypeBNegative  BloodType = "B_NEGATIVE"
	BloodTypeABPositive BloodType = "AB_POSITIVE"
	BloodTypeABNegative BloodType = "AB_NEGATIVE"
	BloodTypeOPositive  BloodType = "O_POSITIVE"
	BloodTypeONegative  BloodType = "O_NEGATIVE"
)

func (b BloodType) Valid() bool {
	switch b {
	case BloodTypeAPositive, BloodTypeANegative,
		BloodTypeBPositive, BloodTypeBNegative,
		BloodTypeABPositive, BloodTypeABNegative,
		BloodTypeOPositive, BloodTypeONegative:
		return true
	}
	return false
}

// Patient is the persisted record. Age is derived from BirthDate at
// read time and never stored.
type Patient struct {
	ID                      uuid.UUID  `db:"id" json:"id"`
	LastName                string     `db:"last_name" json:"last_name"`
	FirstName               string     `db:"first_name" json:"first_name"`
	BirthDate               time.Time  `db:"birth_date" json:"birth_date"`
	Sex                     Sex        `db:"sex" json:"sex"`
	NationalID              *string    `db:"national_id" json:"national_id"`
	Phone                   string     `db:"phone" json:"phone"`
	SecondaryPhone          *string    `db:"secondary_phone" json:"secondary_phone"`
	Email                   *string    `db:"email" json:"email"`
	Address                 *string    `db:"address" json:"address"`
	City                    *string    `db:"city" json:"city"`
	NationalInsuranceNumber *string    `db:"national_insurance_number" json:"national_insurance_number"`
	InsurerName             *string    `db:"insurer_name" json:"insurer_name"`
	InsurerPolicyNumber     *string    `db:"insurer_policy_number" json:"insurer_policy_number"`
	BloodType               *BloodType `db:"blood_type" json:"blood_type"`
	Allergies               *string    `db:"allergies" json:"allergies"`
	MedicalHistory          *string    `db:"medical_history" json:"medical_history"`
	FamilyHistory           *string    `db:"family_history" json:"family_history"`
	PrimaryCarePhysician    *string    `db:"primary_care_physician" json:"primary_care_physician"`
	PrimaryDiagnosis        *string    `db:"primary_diagnosis" json:"primary_diagnosis"`
	CancerDiscoveryDate     *time.Time `db:"cancer_discovery_date" json:"cancer_discovery_date"`
	Stage                   *string    `db:"stage" json:"stage"`
	HistologicalType        *string    `db:"histological_type" json:"histological_type"`
	CreatedAt               time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt               time.Time  `db:"updated_at" json:"updated_at"`
	CreatedByUserID         string     `db:"created_by_user_id" json:"created_by_user_id"`
	ClinicID                string     `db:"clinic_id" json:"clinic_id"`
	IsArchived              bool       `db:"is_archived" json:"is_archived"`

	Age int `db:"-" json:"age"`
}

// AgeAt computes the patient's age in whole calendar years at the given
// instant. The birthday itself counts as completed.
func (p *Patient) AgeAt(now time.Time) int {
	birth := p.BirthDate
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// CreatePatientRequest carries candidate fields for a new record.
// Dates arrive as YYYY-MM-DD strings and are parsed during validation.
type CreatePatientRequest struct {
	LastName                string `json:"last_name"`
	FirstName               string `json:"first_name"`
	BirthDate               string `json:"birth_date"`
	Sex                     string `json:"sex"`
	NationalID              string `json:"national_id"`
	Phone                   string `json:"phone"`
	SecondaryPhone          string `json:"secondary_phone"`
	Email                   string `json:"email"`
	Address                 string `json:"address"`
	City                    string `json:"city"`
	NationalInsuranceNumber string `json:"national_insurance_number"`
	InsurerName             string `json:"insurer_name"`
	InsurerPolicyNumber     string `json:"insurer_policy_number"`
	BloodType               string `json:"blood_type"`
	Allergies               string `json:"allergies"`
	MedicalHistory          string `json:"medical_history"`
	FamilyHistory           string `json:"family_history"`
	PrimaryCarePhysician    string `json:"primary_care_physician"`
	PrimaryDiagnosis        string `json:"primary_diagnosis"`
	CancerDiscoveryDate     string `json:"cancer_discovery_date"`
	Stage                   string `json:"stage"`
	HistologicalType        string `json:"histological_type"`
}

// UpdatePatientRequest carries a partial field set; nil means "leave
// unchanged".
type UpdatePatientRequest struct {
	LastName                *string `json:"last_name"`
	FirstName               *string `json:"first_name"`
	BirthDate               *string `json:"birth_date"`
	Sex                     *string `json:"sex"`
	NationalID              *string `json:"national_id"`
	Phone                   *string `json:"phone"`
	SecondaryPhone          *string `json:"secondary_phone"`
	Email                   *string `json:"email"`
	Address                 *string `json:"address"`
	City                    *string `json:"city"`
	NationalInsuranceNumber *string `json:"national_insurance_number"`
	InsurerName             *string `json:"insurer_name"`
	InsurerPolicyNumber     *string `json:"insurer_policy_number"`
	BloodType               *string `json:"blood_type"`
	Allergies               *string `json:"allergies"`
	MedicalHistory          *string `json:"medical_history"`
	FamilyHistory           *string `json:"family_history"`
	PrimaryCarePhysician    *string `json:"primary_care_physician"`
	PrimaryDiagnosis        *string `json:"primary_diagnosis"`
	CancerDiscoveryDate     *string `json:"cancer_discovery_date"`
	Stage                   *string `json:"stage"`
	HistologicalType        *string `json:"histological_type"`
}

// PatientListParams are the raw list query parameters. Page and Limit
// stay strings so malformed values can fall back to defaults instead
// of failing the bind.
type PatientListParams struct {
	Q            string `form:"q"`
	Sex          string `form:"sex"`
	City         string `form:"city"`
	HasDiagnosis string `form:"has_diagnosis"`
	Page         string `form:"page"`
	Limit        string `form:"limit"`
	SortBy       string `form:"sort_by"`
	SortOrder    string `form:"sort_order"`
}

// PatientQuery is the compiled query descriptor handed to the
// repository. SortColumn is always one of the allow-listed columns.
type PatientQuery struct {
	Search       string
	Sex          Sex
	City         string
	HasDiagnosis *bool
	SortColumn   string
	SortDesc     bool
	Offset       int
	Limit        int
	Page         int
}

// PatientDetail is the read-one payload: the record plus a bounded
// window of recent activity.
type PatientDetail struct {
	Patient
	Consultations     []*Consultation `json:"consultations"`
	ConsultationCount int             `json:"consultation_count"`
}
