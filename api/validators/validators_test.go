package validators

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/soilminds/soilminds-backend/pkg/errors"
)

type signupBody struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestDecodeJSONBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":"Ana","email":"ana@farm.local","password":"secret1"}`))

	var body signupBody
	require.NoError(t, DecodeJSONBody(r, &body))
	assert.Equal(t, "Ana", body.Name)
	assert.Equal(t, "ana@farm.local", body.Email)
}

func TestDecodeJSONBodyValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		field   string
		message string
	}{
		{"missing name", `{"email":"ana@farm.local","password":"secret1"}`, "name", "is required"},
		{"bad email", `{"name":"Ana","email":"nope","password":"secret1"}`, "email", "must be a valid email"},
		{"short password", `{"name":"Ana","email":"ana@farm.local","password":"abc"}`, "password", "must be at least 6"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", bytes.NewBufferString(tc.payload))

			var body signupBody
			err := DecodeJSONBody(r, &body)
			require.Error(t, err)

			var appErr *pkgerrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

			details, ok := appErr.Details().(map[string]string)
			require.True(t, ok, "details type %T", appErr.Details())
			assert.Equal(t, tc.message, details[tc.field])
		})
	}
}

func TestDecodeJSONBodyMalformed(t *testing.T) {
	r := httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"name":`))

	var body signupBody
	err := DecodeJSONBody(r, &body)
	require.Error(t, err)

	var appErr *pkgerrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestDecodeOptionalJSONBodyEmpty(t *testing.T) {
	type generateBody struct {
		UserID *uint `json:"userId" validate:"omitempty,min=1"`
	}

	r := httptest.NewRequest("POST", "/", bytes.NewBuffer(nil))

	var body generateBody
	require.NoError(t, DecodeOptionalJSONBody(r, &body))
	assert.Nil(t, body.UserID)
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?limit=50", nil)

	value, err := ParseQueryInt(r, "limit", 200, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, 50, value)

	value, err = ParseQueryInt(r, "skip", 0, 0, 1<<30)
	require.NoError(t, err)
	assert.Equal(t, 0, value)

	r = httptest.NewRequest("GET", "/?limit=0", nil)
	_, err = ParseQueryInt(r, "limit", 200, 1, 1000)
	require.Error(t, err)

	r = httptest.NewRequest("GET", "/?limit=abc", nil)
	_, err = ParseQueryInt(r, "limit", 200, 1, 1000)
	require.Error(t, err)
}

func TestParseQueryID(t *testing.T) {
	r := httptest.NewRequest("GET", "/?farmId=7", nil)

	id, err := ParseQueryID(r, "farmId")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, uint(7), *id)

	id, err = ParseQueryID(r, "fieldId")
	require.NoError(t, err)
	assert.Nil(t, id)

	r = httptest.NewRequest("GET", "/?farmId=0", nil)
	_, err = ParseQueryID(r, "farmId")
	require.Error(t, err)
}

func TestParsePathID(t *testing.T) {
	id, err := ParsePathID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	_, err = ParsePathID("nope")
	require.Error(t, err)

	_, err = ParsePathID("0")
	require.Error(t, err)
}
