package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		page, limit string
		want        Pagination
	}{
		{"", "", Pagination{Page: 1, Limit: DefaultPageLimit}},
		{"3", "20", Pagination{Page: 3, Limit: 20}},
		{"-2", "0", Pagination{Page: 1, Limit: DefaultPageLimit}},
		{"abc", "5000", Pagination{Page: 1, Limit: MaxPageLimit}},
		{"2", "-7", Pagination{Page: 2, Limit: 1}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page=%q,limit=%q", tt.page, tt.limit), func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePagination(tt.page, tt.limit))
		})
	}

	assert.Equal(t, 40, Pagination{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, DefaultSearchLimit, ParseSearchLimit(""))
	assert.Equal(t, MaxSearchLimit, ParseSearchLimit("99999"))
}

func TestNewPaginatedResponse(t *testing.T) {
	assert.Equal(t, 3, NewPaginatedResponse(nil, 21, 1, 10).TotalPages)
	assert.Equal(t, 2, NewPaginatedResponse(nil, 20, 1, 10).TotalPages)
	assert.Equal(t, 0, NewPaginatedResponse(nil, 0, 1, 10).TotalPages)
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var input struct {
		Name    Optional[string] `json:"name"`
		Phone   Optional[string] `json:"phone"`
		Country Optional[string] `json:"country"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Acme","phone":null}`), &input))

	assert.True(t, input.Name.Present())
	assert.Equal(t, "Acme", *input.Name.Ptr())

	assert.True(t, input.Phone.Set)
	assert.True(t, input.Phone.Null)
	assert.Nil(t, input.Phone.Ptr())

	assert.False(t, input.Country.Set)
}

func TestDate(t *testing.T) {
	d, err := ParseDate("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-28"`, string(data))

	var parsed Date
	assert.Error(t, json.Unmarshal([]byte(`"28/02/2024"`), &parsed))
	assert.Error(t, json.Unmarshal([]byte(`20240228`), &parsed))

	var scanned Date
	require.NoError(t, scanned.Scan("2024-02-28T00:00:00Z"))
	assert.True(t, scanned.Equal(d.Time))
	require.NoError(t, scanned.Scan([]byte("2023-12-31")))
	assert.Equal(t, "2023-12-31", scanned.String())
	assert.Error(t, scanned.Scan(42))
}

func TestValidationError(t *testing.T) {
	verr := NewValidationError()
	assert.NoError(t, verr.OrNil())

	verr.Add("name", "Required")
	verr.Merge(FieldError("email", "Invalid email"))
	verr.Merge(FormError("Invalid request body"))

	err := verr.OrNil()
	require.Error(t, err)
	assert.Equal(t, "validation failed: Invalid request body; email: Invalid email; name: Required", err.Error())

	var target *ValidationError
	assert.True(t, errors.As(fmt.Errorf("create: %w", err), &target))

	var nilErr *ValidationError
	assert.NoError(t, nilErr.OrNil())
}

func TestBindJSONError(t *testing.T) {
	var body struct {
		Accounts int `json:"accounts"`
	}
	err := json.Unmarshal([]byte(`{"accounts":"many"}`), &body)
	require.Error(t, err)

	verr := BindJSONError(err)
	assert.Equal(t, []string{"Expected int, received string"}, verr.FieldErrors["accounts"])

	verr = BindJSONError(errors.New("unexpected EOF"))
	assert.Equal(t, []string{"Invalid request body: unexpected EOF"}, verr.FormErrors)
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", FieldError("name", "Required"), http.StatusBadRequest, `{"error":{"formErrors":[],"fieldErrors":{"name":["Required"]}}}`},
		{"not found", fmt.Errorf("get: %w", NewNotFound("Account")), http.StatusNotFound, `{"error":"Account not found"}`},
		{"object type", ErrInvalidObjectType, http.StatusBadRequest, `{"error":"invalid object type"}`},
		{"built-in", ErrBuiltInField, http.StatusBadRequest, `{"error":"Cannot delete built-in fields"}`},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, `{"error":"Invalid password"}`},
		{"forbidden", ErrForbidden, http.StatusForbidden, `{"error":"Test data generation is disabled"}`},
		{"busy", ErrBusy, http.StatusConflict, `{"error":"A test data job is already running"}`},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, `{"error":"Internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/accounts?page=1", nil)

			HandleError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}
