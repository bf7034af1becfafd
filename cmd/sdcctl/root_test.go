package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdc-club/backend/pkg/utils"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSubmit_PrintsFieldErrorsWithoutCalling(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "submit", "--name", "Asha")
	require.Error(t, err)
	assert.Contains(t, out, "email: Email is required")
	assert.Contains(t, out, "semester: Semester is required")
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestSubmit_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"r1","fullName":"Asha Rao","status":"pending"}}`))
	}))
	defer srv.Close()

	out, err := run(t, "--api", srv.URL, "submit",
		"--name", "Asha Rao", "--email", "asha@mvjce.edu.in", "--student-id", "1MJ21CS001",
		"--branch", "Computer Science", "--semester", "5", "--phone", "9876543210",
		"--skill", "Go", "--skill", "Go", "--why", "To build things")
	require.NoError(t, err)
	assert.Contains(t, out, "Registration submitted successfully")
	assert.Contains(t, out, `"id": "r1"`)
}

func TestStatus_RejectsUnknownStatus(t *testing.T) {
	_, err := run(t, "status", "r1", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid status")
}

func TestChat(t *testing.T) {
	out, err := run(t, "chat", "how", "do", "I", "register")
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(out))
}

func TestHashPassword(t *testing.T) {
	out, err := run(t, "hash-password", "s3cret")
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword("s3cret", strings.TrimSpace(out)))
}
