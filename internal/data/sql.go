package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// queryTimeout bounds every statement issued by the SQL models.
const queryTimeout = 3 * time.Second

// dialect captures the differences between the SQL drivers the store runs on.
// Queries are written with ? placeholders and rebound for drivers that want $N.
type dialect struct {
	numbered  bool // $1, $2, ... placeholders
	returning bool // INSERT ... RETURNING id instead of LastInsertId
	schema    []string
}

var postgresDialect = dialect{
	numbered:  true,
	returning: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS doctors (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			specialization TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS patients (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			doctor_id BIGINT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS patients_doctor_id_idx ON patients (doctor_id)`,
	},
}

var dialects = map[string]dialect{
	"postgres": postgresDialect,
	"pgx":      postgresDialect,
	"sqlite": {
		schema: []string{
			`CREATE TABLE IF NOT EXISTS doctors (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				specialization TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS patients (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				doctor_id INTEGER NULL
			)`,
			`CREATE INDEX IF NOT EXISTS patients_doctor_id_idx ON patients (doctor_id)`,
		},
	},
	"mysql": {
		schema: []string{
			`CREATE TABLE IF NOT EXISTS doctors (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(100) NOT NULL,
				specialization VARCHAR(100) NOT NULL DEFAULT ''
			)`,
			`CREATE TABLE IF NOT EXISTS patients (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(100) NOT NULL,
				doctor_id BIGINT NULL,
				INDEX patients_doctor_id_idx (doctor_id)
			)`,
		},
	},
}

// SQLDrivers lists the database/sql driver names NewModels accepts.
func SQLDrivers() []string {
	return []string{"postgres", "pgx", "sqlite", "mysql"}
}

// NewModels constructs Models wired up to the given connection pool and makes
// sure the doctors and patients tables exist. driver is the database/sql
// driver name the pool was opened with.
func NewModels(ctx context.Context, db *sql.DB, driver string) (Models, error) {
	d, ok := dialects[driver]
	if !ok {
		return Models{}, fmt.Errorf("unsupported sql driver %q", driver)
	}

	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return Models{}, fmt.Errorf("create tables: %w", err)
		}
	}

	return Models{
		Doctors:  DoctorSQLModel{DB: db, dialect: d},
		Patients: PatientSQLModel{DB: db, dialect: d},
	}, nil
}

// rebind rewrites ? placeholders into $N for drivers that need it.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// insert runs an INSERT and returns the id the database assigned.
func (d dialect) insert(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	if d.returning {
		var id int64
		err := db.QueryRowContext(ctx, d.rebind(query+" RETURNING id"), args...).Scan(&id)
		return id, err
	}

	result, err := db.ExecContext(ctx, d.rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// execOne runs an UPDATE or DELETE addressed by id and reports
// ErrRecordNotFound when it touched no row.
func (d dialect) execOne(ctx context.Context, db *sql.DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, d.rebind(query), args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DoctorSQLModel wraps a *sql.DB connection pool and provides the doctor
// record operations.
type DoctorSQLModel struct {
	DB      *sql.DB
	dialect dialect
}

// GetAll returns every doctor ordered by id.
func (m DoctorSQLModel) GetAll(ctx context.Context) ([]*Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, `SELECT id, name, specialization FROM doctors ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select doctors: %w", err)
	}
	defer rows.Close()

	doctors := []*Doctor{}
	for rows.Next() {
		doctor := Doctor{Patients: []*Patient{}}
		if err := rows.Scan(&doctor.ID, &doctor.Name, &doctor.Specialization); err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, &doctor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select doctors: %w", err)
	}
	return doctors, nil
}

// Get retrieves a single doctor by id.
// Returns ErrRecordNotFound if no doctor with the given id exists.
func (m DoctorSQLModel) Get(ctx context.Context, id int64) (*Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doctor := Doctor{Patients: []*Patient{}}
	query := m.dialect.rebind(`SELECT id, name, specialization FROM doctors WHERE id = ?`)
	err := m.DB.QueryRowContext(ctx, query, id).Scan(&doctor.ID, &doctor.Name, &doctor.Specialization)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, fmt.Errorf("select doctor %d: %w", id, err)
		}
	}
	return &doctor, nil
}

// GetAllWithPatients joins the patients onto their doctors in one statement so
// the result reflects a single snapshot of both tables.
func (m DoctorSQLModel) GetAllWithPatients(ctx context.Context) ([]*Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT d.id, d.name, d.specialization, p.id, p.name
		FROM doctors d
		LEFT JOIN patients p ON p.doctor_id = d.id
		ORDER BY d.id, p.id`

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select doctors with patients: %w", err)
	}
	defer rows.Close()

	doctors := []*Doctor{}
	var current *Doctor
	for rows.Next() {
		var (
			doctor      Doctor
			patientID   sql.NullInt64
			patientName sql.NullString
		)
		if err := rows.Scan(&doctor.ID, &doctor.Name, &doctor.Specialization, &patientID, &patientName); err != nil {
			return nil, fmt.Errorf("scan doctor with patients: %w", err)
		}
		if current == nil || current.ID != doctor.ID {
			doctor.Patients = []*Patient{}
			current = &doctor
			doctors = append(doctors, current)
		}
		if patientID.Valid {
			doctorID := current.ID
			current.Patients = append(current.Patients, &Patient{
				ID:       patientID.Int64,
				Name:     patientName.String,
				DoctorID: &doctorID,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select doctors with patients: %w", err)
	}
	return doctors, nil
}

// Insert adds a new doctor and writes the assigned id back into doctor.
func (m DoctorSQLModel) Insert(ctx context.Context, doctor *Doctor) error {
	if err := validateDoctor(doctor); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := m.dialect.insert(ctx, m.DB,
		`INSERT INTO doctors (name, specialization) VALUES (?, ?)`,
		doctor.Name, doctor.Specialization)
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}

	doctor.ID = id
	doctor.Patients = []*Patient{}
	return nil
}

// Update replaces the doctor's name and specialization.
func (m DoctorSQLModel) Update(ctx context.Context, id int64, doctor *Doctor) error {
	if err := checkUpdate(id, doctor.ID, validateDoctor(doctor)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.dialect.execOne(ctx, m.DB,
		`UPDATE doctors SET name = ?, specialization = ? WHERE id = ?`,
		doctor.Name, doctor.Specialization, id)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return fmt.Errorf("update doctor %d: %w", id, err)
	}
	return err
}

// Delete removes the doctor. Patients referencing it are left as they are.
func (m DoctorSQLModel) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.dialect.execOne(ctx, m.DB, `DELETE FROM doctors WHERE id = ?`, id)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return fmt.Errorf("delete doctor %d: %w", id, err)
	}
	return err
}

// PatientSQLModel wraps a *sql.DB connection pool and provides the patient
// record operations.
type PatientSQLModel struct {
	DB      *sql.DB
	dialect dialect
}

// GetAllForDoctor returns the patients whose doctor_id equals doctorID.
func (m PatientSQLModel) GetAllForDoctor(ctx context.Context, doctorID int64) ([]*Patient, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := m.dialect.rebind(`SELECT id, name, doctor_id FROM patients WHERE doctor_id = ? ORDER BY id`)
	rows, err := m.DB.QueryContext(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("select patients for doctor %d: %w", doctorID, err)
	}
	defer rows.Close()

	patients := []*Patient{}
	for rows.Next() {
		var (
			patient Patient
			ref     sql.NullInt64
		)
		if err := rows.Scan(&patient.ID, &patient.Name, &ref); err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		if ref.Valid {
			patient.DoctorID = &ref.Int64
		}
		patients = append(patients, &patient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select patients for doctor %d: %w", doctorID, err)
	}
	return patients, nil
}

// Insert adds a new patient and writes the assigned id back into patient.
// The doctor reference is stored without checking that the doctor exists.
func (m PatientSQLModel) Insert(ctx context.Context, patient *Patient) error {
	if err := validatePatient(patient); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	id, err := m.dialect.insert(ctx, m.DB,
		`INSERT INTO patients (name, doctor_id) VALUES (?, ?)`,
		patient.Name, nullableID(patient.DoctorID))
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}

	patient.ID = id
	return nil
}

// Update replaces the patient's name and doctor reference.
func (m PatientSQLModel) Update(ctx context.Context, id int64, patient *Patient) error {
	if err := checkUpdate(id, patient.ID, validatePatient(patient)); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.dialect.execOne(ctx, m.DB,
		`UPDATE patients SET name = ?, doctor_id = ? WHERE id = ?`,
		patient.Name, nullableID(patient.DoctorID), id)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return fmt.Errorf("update patient %d: %w", id, err)
	}
	return err
}

// Delete removes the patient with the given id.
func (m PatientSQLModel) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.dialect.execOne(ctx, m.DB, `DELETE FROM patients WHERE id = ?`, id)
	if err != nil && !errors.Is(err, ErrRecordNotFound) {
		return fmt.Errorf("delete patient %d: %w", id, err)
	}
	return err
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
