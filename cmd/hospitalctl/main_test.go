package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunPrintsResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/patients/byDoctor/4", r.URL.Path)
		w.Write([]byte(`[{"id":2,"name":"Bob","doctorId":4}]`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), []string{"-addr", srv.URL, "doctors", "patients", "4"}, &out)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":2,"name":"Bob","doctorId":4}]`, out.String())
}

func TestRunPatientAddWithoutDoctor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"id":0,"name":"Walk-in","doctorId":null}`, string(body))
		w.Write([]byte(`{"id":1,"name":"Walk-in","doctorId":null}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := run(context.Background(), []string{"-addr", srv.URL, "patients", "add", "Walk-in"}, &out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Walk-in","doctorId":null}`, out.String())
}

func TestRunDeletePrintsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-addr", srv.URL, "doctors", "rm", "1"}, &out))
	assert.Empty(t, out.String())
}

func TestRunUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"doctors"},
		{"nurses", "list"},
		{"doctors", "get"},
		{"doctors", "get", "abc"},
		{"doctors", "fire", "1"},
		{"patients", "add", "Bob", "x"},
	} {
		err := run(context.Background(), args, io.Discard)
		assert.ErrorIs(t, err, errUsage, "args %v", args)
	}
}

func TestRunRejectsMalformedEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=1\n"), 0o600))
	t.Chdir(dir)

	err := run(context.Background(), []string{"doctors", "list"}, io.Discard)
	assert.ErrorContains(t, err, "load .env")
}
