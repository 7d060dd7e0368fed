package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/domain"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/validation"
)

type sampleRequest struct {
	Name string `json:"name" validate:"required,max=5"`
	Age  int    `json:"age"  validate:"gte=0"`
}

func (s *sampleRequest) Validate() error {
	if s.Name == "admin" {
		return validation.New("name", "is reserved")
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid json", `{"name": "test", "age": 30}`, false},
		{"trailing comma", `{"name": "test", "age": 30,}`, true},
		{"empty body", "", true},
		{"unknown field", `{"name": "test", "role": "admin"}`, true},
		{"two values", `{"name": "a"} {"name": "b"}`, true},
		{"wrong type", `{"age": "thirty"}`, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tc.body))
			var target sampleRequest
			err := DecodeJSON(httptest.NewRecorder(), req, &target)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test", target.Name)
			assert.Equal(t, 30, target.Age)
		})
	}
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sampleRequest{Name: "test"}))

	err := ValidateRequest(&sampleRequest{Name: "toolong", Age: -1})
	require.ErrorIs(t, err, domain.ErrValidation)
	fields := validation.Fields(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Field)
	assert.Equal(t, "age", fields[1].Field)

	err = ValidateRequest(&sampleRequest{Name: "admin"})
	assert.ErrorIs(t, err, domain.ErrValidation, "custom Validate runs after tags pass")
}
