package errors

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempLogDir(t *testing.T) string {
	t.Helper()
	logDir := filepath.Join(t.TempDir(), "logs")
	t.Setenv("MIGO_LOG_DIR", logDir)
	return logDir
}

func TestNewErrorHandler(t *testing.T) {
	useTempLogDir(t)

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	if handler == nil {
		t.Fatal("NewErrorHandler() returned nil handler")
	}

	if handler.logger == nil {
		t.Error("ErrorHandler.logger is nil")
	}

	if handler.console == nil {
		t.Error("ErrorHandler.console is nil")
	}
}

func TestErrorHandler_Handle_MigoError(t *testing.T) {
	logDir := useTempLogDir(t)

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	testErr := NewStartError(
		"Failed to start database container",
		"Port 5432 is already in use",
		"Stop the process bound to port 5432 and retry",
		errors.New("port is already allocated"),
	)

	handler.Handle(testErr)

	// Verify log file was created and contains expected content
	logFile := filepath.Join(logDir, "migo.log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(data), "start_failed") {
		t.Errorf("log entry missing error type, got: %s", data)
	}
}

func TestErrorHandler_Handle_GenericError(t *testing.T) {
	logDir := useTempLogDir(t)

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	handler.Handle(errors.New("something unexpected"))

	logFile := filepath.Join(logDir, "migo.log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("log file was not created: %v", err)
	}
	if !strings.Contains(string(data), "generic") {
		t.Errorf("log entry missing generic type, got: %s", data)
	}
}

func TestErrorHandler_Handle_NilError(t *testing.T) {
	useTempLogDir(t)

	handler, err := NewErrorHandler()
	if err != nil {
		t.Fatalf("NewErrorHandler() failed: %v", err)
	}

	// Must not panic.
	handler.Handle(nil)
}

func TestGetDefaultHandler_Singleton(t *testing.T) {
	useTempLogDir(t)
	resetDefaultHandler()
	t.Cleanup(resetDefaultHandler)

	first, err := GetDefaultHandler()
	if err != nil {
		t.Fatalf("GetDefaultHandler() failed: %v", err)
	}

	second, err := GetDefaultHandler()
	if err != nil {
		t.Fatalf("GetDefaultHandler() failed: %v", err)
	}

	if first != second {
		t.Error("GetDefaultHandler() should return the same instance")
	}
}

func TestMigoError_Unwrap(t *testing.T) {
	original := errors.New("original error")
	wrapped := NewRuntimeError("context", "cause", "suggestion", original)

	if !errors.Is(wrapped, original) {
		t.Error("MigoError should unwrap to the original error")
	}
	if wrapped.Error() != "original error" {
		t.Errorf("Error() = %q, want the original message", wrapped.Error())
	}
}

func TestGetErrorTypeName(t *testing.T) {
	tests := []struct {
		errType error
		want    string
	}{
		{ErrRuntimeUnavailable, "runtime_unavailable"},
		{ErrStartFailed, "start_failed"},
		{ErrNotFound, "not_found"},
		{ErrInvalidSpec, "invalid_spec"},
		{ErrConfigInvalid, "config_invalid"},
		{ErrDatabaseFailed, "database_failed"},
		{ErrMigrationFailed, "migration_failed"},
		{errors.New("other"), "unknown"},
	}

	for _, test := range tests {
		if got := getErrorTypeName(test.errType); got != test.want {
			t.Errorf("getErrorTypeName(%v) = %q, want %q", test.errType, got, test.want)
		}
	}
}
