// internal/data/models.go
package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrRecordNotFound is returned when no record exists for the requested id.
	ErrRecordNotFound = errors.New("record not found")

	// ErrIDMismatch is returned by Update when the id carried in the record
	// does not match the id used to address it.
	ErrIDMismatch = errors.New("id mismatch")
)

// ValidationError carries the field-level messages that caused a write to be
// rejected before the store was touched.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, field := range slices.Sorted(maps.Keys(e.Errors)) {
		parts = append(parts, fmt.Sprintf("%s %s", field, e.Errors[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// DoctorModel is the record store contract for doctors.
type DoctorModel interface {
	GetAll(ctx context.Context) ([]*Doctor, error)
	Get(ctx context.Context, id int64) (*Doctor, error)
	GetAllWithPatients(ctx context.Context) ([]*Doctor, error)
	Insert(ctx context.Context, doctor *Doctor) error
	Update(ctx context.Context, id int64, doctor *Doctor) error
	Delete(ctx context.Context, id int64) error
}

// PatientModel is the record store contract for patients.
type PatientModel interface {
	GetAllForDoctor(ctx context.Context, doctorID int64) ([]*Patient, error)
	Insert(ctx context.Context, patient *Patient) error
	Update(ctx context.Context, id int64, patient *Patient) error
	Delete(ctx context.Context, id int64) error
}

// Models is a top-level container that groups all model types together.
// It is passed around the application via applicationDependencies so every
// handler has access to the record store without knowing which backend
// holds the data.
type Models struct {
	Doctors  DoctorModel
	Patients PatientModel
}

// checkUpdate runs the write-time checks shared by every backend's Update, in
// the order the API reports them: field validation first, then the id match.
func checkUpdate(id, recordID int64, validationErr error) error {
	if validationErr != nil {
		return validationErr
	}
	if id != recordID {
		return ErrIDMismatch
	}
	return nil
}
