package data

import "github.com/aoideee/hospital-records/internal/validator"

// Patient represents a single patient record. DoctorID is advisory: it is
// stored as given and may point at a doctor that no longer exists.
type Patient struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	DoctorID *int64 `json:"doctorId"`
}

// PatientInput holds the fields a client may send when creating or replacing
// a patient.
type PatientInput struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	DoctorID *int64 `json:"doctorId"`
}

// Patient converts the input into a record ready for Insert or Update.
func (in PatientInput) Patient() *Patient {
	return &Patient{ID: in.ID, Name: in.Name, DoctorID: in.DoctorID}
}

// ValidatePatient records every problem with patient's writable fields in v.
func ValidatePatient(v *validator.Validator, patient *Patient) {
	v.Check(validator.NotBlank(patient.Name), "name", "must be provided")
	v.Check(validator.MaxChars(patient.Name, 100), "name", "must not be more than 100 characters long")
}

func validatePatient(patient *Patient) error {
	v := validator.New()
	ValidatePatient(v, patient)
	if !v.Valid() {
		return &ValidationError{Errors: v.Errors}
	}
	return nil
}

func clonePatient(p Patient) *Patient {
	if p.DoctorID != nil {
		id := *p.DoctorID
		p.DoctorID = &id
	}
	return &p
}

func sameDoctor(doctorID *int64, id int64) bool {
	return doctorID != nil && *doctorID == id
}
