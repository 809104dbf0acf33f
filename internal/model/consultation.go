package model

import (
	"time"

	"github.com/google/uuid"
)

// Consultation is a visit note attached to a patient. Only the recent
// window surfaces through the patient detail endpoint.
type Consultation struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	Date       time.Time `db:"date" json:"date"`
	Reason     string    `db:"reason" json:"reason"`
	Conclusion *string   `db:"conclusion" json:"conclusion"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
