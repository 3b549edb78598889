package data

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// memoryState holds both collections behind one lock so the joined doctor
// view never observes a half-applied write.
type memoryState struct {
	mu            sync.RWMutex
	doctors       map[int64]Doctor
	patients      map[int64]Patient
	lastDoctorID  int64
	lastPatientID int64
}

// NewMemoryModels returns Models backed by a fresh in-memory store. Each call
// yields an independent store, which is what tests and the "memory" driver use.
func NewMemoryModels() Models {
	state := &memoryState{
		doctors:  make(map[int64]Doctor),
		patients: make(map[int64]Patient),
	}
	return Models{
		Doctors:  memoryDoctorModel{state: state},
		Patients: memoryPatientModel{state: state},
	}
}

type memoryDoctorModel struct {
	state *memoryState
}

func (m memoryDoctorModel) GetAll(ctx context.Context) ([]*Doctor, error) {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	doctors := make([]*Doctor, 0, len(m.state.doctors))
	for _, id := range slices.Sorted(maps.Keys(m.state.doctors)) {
		doctors = append(doctors, m.state.doctor(id))
	}
	return doctors, nil
}

func (m memoryDoctorModel) Get(ctx context.Context, id int64) (*Doctor, error) {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	if _, ok := m.state.doctors[id]; !ok {
		return nil, ErrRecordNotFound
	}
	return m.state.doctor(id), nil
}

func (m memoryDoctorModel) GetAllWithPatients(ctx context.Context) ([]*Doctor, error) {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	patientIDs := slices.Sorted(maps.Keys(m.state.patients))
	doctors := make([]*Doctor, 0, len(m.state.doctors))
	for _, id := range slices.Sorted(maps.Keys(m.state.doctors)) {
		doctor := m.state.doctor(id)
		for _, pid := range patientIDs {
			if p := m.state.patients[pid]; sameDoctor(p.DoctorID, id) {
				doctor.Patients = append(doctor.Patients, clonePatient(p))
			}
		}
		doctors = append(doctors, doctor)
	}
	return doctors, nil
}

func (m memoryDoctorModel) Insert(ctx context.Context, doctor *Doctor) error {
	if err := validateDoctor(doctor); err != nil {
		return err
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	m.state.lastDoctorID++
	doctor.ID = m.state.lastDoctorID
	doctor.Patients = []*Patient{}
	m.state.doctors[doctor.ID] = Doctor{ID: doctor.ID, Name: doctor.Name, Specialization: doctor.Specialization}
	return nil
}

func (m memoryDoctorModel) Update(ctx context.Context, id int64, doctor *Doctor) error {
	if err := checkUpdate(id, doctor.ID, validateDoctor(doctor)); err != nil {
		return err
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.doctors[id]; !ok {
		return ErrRecordNotFound
	}
	m.state.doctors[id] = Doctor{ID: id, Name: doctor.Name, Specialization: doctor.Specialization}
	return nil
}

func (m memoryDoctorModel) Delete(ctx context.Context, id int64) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.doctors[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.state.doctors, id)
	return nil
}

// doctor returns a detached copy of the stored doctor. Callers hold the lock.
func (s *memoryState) doctor(id int64) *Doctor {
	d := s.doctors[id]
	d.Patients = []*Patient{}
	return &d
}

type memoryPatientModel struct {
	state *memoryState
}

func (m memoryPatientModel) GetAllForDoctor(ctx context.Context, doctorID int64) ([]*Patient, error) {
	m.state.mu.RLock()
	defer m.state.mu.RUnlock()

	patients := []*Patient{}
	for _, id := range slices.Sorted(maps.Keys(m.state.patients)) {
		if p := m.state.patients[id]; sameDoctor(p.DoctorID, doctorID) {
			patients = append(patients, clonePatient(p))
		}
	}
	return patients, nil
}

func (m memoryPatientModel) Insert(ctx context.Context, patient *Patient) error {
	if err := validatePatient(patient); err != nil {
		return err
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	m.state.lastPatientID++
	patient.ID = m.state.lastPatientID
	m.state.patients[patient.ID] = *clonePatient(*patient)
	return nil
}

func (m memoryPatientModel) Update(ctx context.Context, id int64, patient *Patient) error {
	if err := checkUpdate(id, patient.ID, validatePatient(patient)); err != nil {
		return err
	}

	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.patients[id]; !ok {
		return ErrRecordNotFound
	}
	m.state.patients[id] = *clonePatient(*patient)
	return nil
}

func (m memoryPatientModel) Delete(ctx context.Context, id int64) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if _, ok := m.state.patients[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.state.patients, id)
	return nil
}
