// Package client is a typed HTTP client for the hospital records API.
//
// Every call is bounded by the client's timeout. Replies the API uses to reject
// a request (4xx) come back as *APIError; transport failures, timeouts,
// unexpected statuses and undecodable bodies come back as *NetworkError.
// Nothing is retried.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/aoideee/hospital-records/internal/data"
)

// DefaultTimeout bounds a single request when New is given zero.
const DefaultTimeout = 10 * time.Second

// APIError is a request the API understood and refused.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// NotFound reports whether the addressed record does not exist.
func (e *APIError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// NetworkError is a request that could not be completed.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *NetworkError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Client talks to one API base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL, e.g. "http://localhost:4000".
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ListDoctors returns every doctor ordered by id, without their patients.
func (c *Client) ListDoctors(ctx context.Context) ([]*data.Doctor, error) {
	var doctors []*data.Doctor
	err := c.do(ctx, http.MethodGet, "/doctors", nil, http.StatusOK, &doctors)
	return doctors, err
}

// ListDoctorsWithPatients returns every doctor with its patients embedded.
func (c *Client) ListDoctorsWithPatients(ctx context.Context) ([]*data.Doctor, error) {
	var doctors []*data.Doctor
	err := c.do(ctx, http.MethodGet, "/doctors/full", nil, http.StatusOK, &doctors)
	return doctors, err
}

// GetDoctor fetches one doctor. A missing doctor is an *APIError for which
// NotFound reports true.
func (c *Client) GetDoctor(ctx context.Context, id int64) (*data.Doctor, error) {
	var doctor data.Doctor
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/doctors/%d", id), nil, http.StatusOK, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// CreateDoctor stores a new doctor and returns it with its assigned id.
func (c *Client) CreateDoctor(ctx context.Context, input data.DoctorInput) (*data.Doctor, error) {
	var doctor data.Doctor
	if err := c.do(ctx, http.MethodPost, "/doctors", input, http.StatusCreated, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// UpdateDoctor replaces the doctor's fields; input.ID is set to id.
func (c *Client) UpdateDoctor(ctx context.Context, id int64, input data.DoctorInput) error {
	input.ID = id
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/doctors/%d", id), input, http.StatusNoContent, nil)
}

// DeleteDoctor removes a doctor. Its patients keep their doctorId.
func (c *Client) DeleteDoctor(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/doctors/%d", id), nil, http.StatusNoContent, nil)
}

// ListPatientsForDoctor returns the patients whose doctorId equals doctorID.
// An unknown doctor yields an empty list.
func (c *Client) ListPatientsForDoctor(ctx context.Context, doctorID int64) ([]*data.Patient, error) {
	var patients []*data.Patient
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/patients/byDoctor/%d", doctorID), nil, http.StatusOK, &patients)
	return patients, err
}

// CreatePatient stores a new patient and returns it with its assigned id.
func (c *Client) CreatePatient(ctx context.Context, input data.PatientInput) (*data.Patient, error) {
	var patient data.Patient
	if err := c.do(ctx, http.MethodPost, "/patients", input, http.StatusOK, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// UpdatePatient replaces the patient's fields; input.ID is set to id.
func (c *Client) UpdatePatient(ctx context.Context, id int64, input data.PatientInput) error {
	input.ID = id
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/patients/%d", id), input, http.StatusNoContent, nil)
}

// DeletePatient removes a patient.
func (c *Client) DeletePatient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/patients/%d", id), nil, http.StatusNoContent, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, dst any) error {
	url := c.baseURL + path
	netErr := func(err error) error {
		return &NetworkError{Method: method, URL: url, Err: err}
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return netErr(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == want:
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	default:
		return netErr(fmt.Errorf("unexpected status %s", resp.Status))
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return netErr(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// errorMessage flattens the API's {"error": ...} body, which holds either a
// string or a field-to-message map.
func errorMessage(r io.Reader) string {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return "unreadable error response"
	}

	var message string
	if err := json.Unmarshal(body.Error, &message); err == nil {
		return message
	}

	var fields map[string]string
	if err := json.Unmarshal(body.Error, &fields); err == nil {
		parts := make([]string, 0, len(fields))
		for _, field := range slices.Sorted(maps.Keys(fields)) {
			parts = append(parts, field+" "+fields[field])
		}
		return strings.Join(parts, "; ")
	}
	return string(body.Error)
}
