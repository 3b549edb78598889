package data

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"
)

var (
	doctorsBucket  = []byte("doctors")
	patientsBucket = []byte("patients")
)

// doctorRecord is the stored form of a doctor; the roster is derived on read.
type doctorRecord struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

type patientRecord struct {
	Name     string `json:"name"`
	DoctorID *int64 `json:"doctorId"`
}

// NewBoltModels constructs Models on top of an open bolt database, creating the
// doctors and patients buckets when they are missing. Keys are big-endian ids,
// so cursor order is id order.
func NewBoltModels(db *bolt.DB) (Models, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{doctorsBucket, patientsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return Models{}, err
	}

	return Models{
		Doctors:  boltDoctorModel{db: db},
		Patients: boltPatientModel{db: db},
	}, nil
}

func itob(id int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func btoi(b []byte) int64 {
	return int64(binary.BigEndian.Uint64(b))
}

func decodeDoctor(k, v []byte) (*Doctor, error) {
	var rec doctorRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, fmt.Errorf("decode doctor %d: %w", btoi(k), err)
	}
	return &Doctor{ID: btoi(k), Name: rec.Name, Specialization: rec.Specialization, Patients: []*Patient{}}, nil
}

func decodePatient(k, v []byte) (*Patient, error) {
	var rec patientRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, fmt.Errorf("decode patient %d: %w", btoi(k), err)
	}
	return &Patient{ID: btoi(k), Name: rec.Name, DoctorID: rec.DoctorID}, nil
}

// putNew stores value under the bucket's next sequence number and returns it.
func putNew(b *bolt.Bucket, value any) (int64, error) {
	seq, err := b.NextSequence()
	if err != nil {
		return 0, err
	}
	buf, err := json.Marshal(value)
	if err != nil {
		return 0, err
	}
	id := int64(seq)
	return id, b.Put(itob(id), buf)
}

// replace overwrites an existing key, reporting ErrRecordNotFound when absent.
func replace(b *bolt.Bucket, id int64, value any) error {
	if b.Get(itob(id)) == nil {
		return ErrRecordNotFound
	}
	buf, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return b.Put(itob(id), buf)
}

func remove(b *bolt.Bucket, id int64) error {
	if b.Get(itob(id)) == nil {
		return ErrRecordNotFound
	}
	return b.Delete(itob(id))
}

type boltDoctorModel struct {
	db *bolt.DB
}

func (m boltDoctorModel) GetAll(ctx context.Context) ([]*Doctor, error) {
	doctors := []*Doctor{}
	err := m.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(doctorsBucket).ForEach(func(k, v []byte) error {
			doctor, err := decodeDoctor(k, v)
			if err != nil {
				return err
			}
			doctors = append(doctors, doctor)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (m boltDoctorModel) Get(ctx context.Context, id int64) (*Doctor, error) {
	var doctor *Doctor
	err := m.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(doctorsBucket).Get(itob(id))
		if v == nil {
			return ErrRecordNotFound
		}
		var err error
		doctor, err = decodeDoctor(itob(id), v)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doctor, nil
}

func (m boltDoctorModel) GetAllWithPatients(ctx context.Context) ([]*Doctor, error) {
	doctors := []*Doctor{}
	err := m.db.View(func(tx *bolt.Tx) error {
		byID := make(map[int64]*Doctor)
		err := tx.Bucket(doctorsBucket).ForEach(func(k, v []byte) error {
			doctor, err := decodeDoctor(k, v)
			if err != nil {
				return err
			}
			byID[doctor.ID] = doctor
			doctors = append(doctors, doctor)
			return nil
		})
		if err != nil {
			return err
		}
		return tx.Bucket(patientsBucket).ForEach(func(k, v []byte) error {
			patient, err := decodePatient(k, v)
			if err != nil {
				return err
			}
			if patient.DoctorID == nil {
				return nil
			}
			if doctor, ok := byID[*patient.DoctorID]; ok {
				doctor.Patients = append(doctor.Patients, patient)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return doctors, nil
}

func (m boltDoctorModel) Insert(ctx context.Context, doctor *Doctor) error {
	if err := validateDoctor(doctor); err != nil {
		return err
	}

	var id int64
	err := m.db.Update(func(tx *bolt.Tx) error {
		var err error
		id, err = putNew(tx.Bucket(doctorsBucket), doctorRecord{Name: doctor.Name, Specialization: doctor.Specialization})
		return err
	})
	if err != nil {
		return fmt.Errorf("insert doctor: %w", err)
	}

	doctor.ID = id
	doctor.Patients = []*Patient{}
	return nil
}

func (m boltDoctorModel) Update(ctx context.Context, id int64, doctor *Doctor) error {
	if err := checkUpdate(id, doctor.ID, validateDoctor(doctor)); err != nil {
		return err
	}
	return m.db.Update(func(tx *bolt.Tx) error {
		return replace(tx.Bucket(doctorsBucket), id, doctorRecord{Name: doctor.Name, Specialization: doctor.Specialization})
	})
}

func (m boltDoctorModel) Delete(ctx context.Context, id int64) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		return remove(tx.Bucket(doctorsBucket), id)
	})
}

type boltPatientModel struct {
	db *bolt.DB
}

func (m boltPatientModel) GetAllForDoctor(ctx context.Context, doctorID int64) ([]*Patient, error) {
	patients := []*Patient{}
	err := m.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(patientsBucket).ForEach(func(k, v []byte) error {
			patient, err := decodePatient(k, v)
			if err != nil {
				return err
			}
			if sameDoctor(patient.DoctorID, doctorID) {
				patients = append(patients, patient)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (m boltPatientModel) Insert(ctx context.Context, patient *Patient) error {
	if err := validatePatient(patient); err != nil {
		return err
	}

	var id int64
	err := m.db.Update(func(tx *bolt.Tx) error {
		var err error
		id, err = putNew(tx.Bucket(patientsBucket), patientRecord{Name: patient.Name, DoctorID: patient.DoctorID})
		return err
	})
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}

	patient.ID = id
	return nil
}

func (m boltPatientModel) Update(ctx context.Context, id int64, patient *Patient) error {
	if err := checkUpdate(id, patient.ID, validatePatient(patient)); err != nil {
		return err
	}
	return m.db.Update(func(tx *bolt.Tx) error {
		return replace(tx.Bucket(patientsBucket), id, patientRecord{Name: patient.Name, DoctorID: patient.DoctorID})
	})
}

func (m boltPatientModel) Delete(ctx context.Context, id int64) error {
	return m.db.Update(func(tx *bolt.Tx) error {
		return remove(tx.Bucket(patientsBucket), id)
	})
}
