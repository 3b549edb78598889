package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/aoideee/hospital-records/internal/data"
)

func newTestApplication(t *testing.T) *applicationDependencies {
	t.Helper()

	var cfg serverConfig
	cfg.environment = "testing"
	cfg.db.driver = "memory"
	cfg.cors.trustedOrigins = []string{"http://localhost:5173"}

	return &applicationDependencies{
		config:  cfg,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		models:  data.NewMemoryModels(),
		metrics: newMetrics(),
	}
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, path, reader)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// mockDoctorModel lets a test decide what the doctor store returns.
type mockDoctorModel struct {
	mock.Mock
}

func (m *mockDoctorModel) GetAll(ctx context.Context) ([]*data.Doctor, error) {
	args := m.Called(ctx)
	doctors, _ := args.Get(0).([]*data.Doctor)
	return doctors, args.Error(1)
}

func (m *mockDoctorModel) Get(ctx context.Context, id int64) (*data.Doctor, error) {
	args := m.Called(ctx, id)
	doctor, _ := args.Get(0).(*data.Doctor)
	return doctor, args.Error(1)
}

func (m *mockDoctorModel) GetAllWithPatients(ctx context.Context) ([]*data.Doctor, error) {
	args := m.Called(ctx)
	doctors, _ := args.Get(0).([]*data.Doctor)
	return doctors, args.Error(1)
}

func (m *mockDoctorModel) Insert(ctx context.Context, doctor *data.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *mockDoctorModel) Update(ctx context.Context, id int64, doctor *data.Doctor) error {
	return m.Called(ctx, id, doctor).Error(0)
}

func (m *mockDoctorModel) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
