package errors_test

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
)

func TestMetadataFor(t *testing.T) {
	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, http.StatusBadRequest},
		{pkgerrors.CodeUnauthorized, http.StatusUnauthorized},
		{pkgerrors.CodeForbidden, http.StatusForbidden},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeConflict, http.StatusConflict},
		{pkgerrors.CodeStateConflict, http.StatusBadRequest},
		{pkgerrors.CodeInternal, http.StatusInternalServerError},
		{pkgerrors.CodeDependency, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		if got := pkgerrors.MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.code, tc.status, got)
		}
	}

	if got := pkgerrors.MetadataFor("UNKNOWN").HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown code must map to 500, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("boom")
	err := pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "query failed")

	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped cause not reachable via errors.Is")
	}
	if err.Code() != pkgerrors.CodeDependency || err.Message() != "query failed" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAsUnwrapsThroughFmt(t *testing.T) {
	inner := pkgerrors.New(pkgerrors.CodeNotFound, "Farm not found")
	wrapped := fmt.Errorf("handler: %w", inner)

	typed := pkgerrors.As(wrapped)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected typed error, got %v", typed)
	}

	if pkgerrors.As(stdErrors.New("plain")) != nil {
		t.Fatal("plain error must not convert")
	}
	if pkgerrors.As(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}

func TestWithDetails(t *testing.T) {
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]string{"name": "required"})
	details, ok := err.Details().(map[string]string)
	if !ok || details["name"] != "required" {
		t.Fatalf("unexpected details: %#v", err.Details())
	}
}
