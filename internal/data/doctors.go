// Package data provides the doctor and patient record types and the record
// store backends for the hospital API.
package data

import (
	"encoding/json"

	"github.com/aoideee/hospital-records/internal/validator"
)

// Doctor represents a single doctor record.
// Patients is never stored: it is filled by GetAllWithPatients from the
// patients whose DoctorID equals ID, and is an empty list everywhere else.
type Doctor struct {
	ID             int64      `json:"id"`             // Unique identifier assigned by the store
	Name           string     `json:"name"`           // Required, non-blank
	Specialization string     `json:"specialization"` // Optional area of practice
	Patients       []*Patient `json:"patients"`       // Derived roster
}

// DoctorInput holds the fields a client may send when creating or replacing a
// doctor. ID is only meaningful on update, where it must equal the path id.
// Patients is accepted and ignored, so a doctor read from the API can be sent
// back as is.
type DoctorInput struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Specialization string          `json:"specialization"`
	Patients       json.RawMessage `json:"patients,omitempty"`
}

// Doctor converts the input into a record ready for Insert or Update.
func (in DoctorInput) Doctor() *Doctor {
	return &Doctor{
		ID:             in.ID,
		Name:           in.Name,
		Specialization: in.Specialization,
		Patients:       []*Patient{},
	}
}

// ValidateDoctor records every problem with doctor's writable fields in v.
func ValidateDoctor(v *validator.Validator, doctor *Doctor) {
	v.Check(validator.NotBlank(doctor.Name), "name", "must be provided")
	v.Check(validator.MaxChars(doctor.Name, 100), "name", "must not be more than 100 characters long")
	v.Check(validator.MaxChars(doctor.Specialization, 100), "specialization", "must not be more than 100 characters long")
}

func validateDoctor(doctor *Doctor) error {
	v := validator.New()
	ValidateDoctor(v, doctor)
	if !v.Valid() {
		return &ValidationError{Errors: v.Errors}
	}
	return nil
}
