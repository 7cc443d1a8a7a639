package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableQuery(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		q, err := ParseTableQuery(httptest.NewRequest(http.MethodGet, "/tickets", nil))

		require.NoError(t, err)
		assert.Equal(t, 1, q.Page)
		assert.Equal(t, domain.DefaultPageSize, q.PageSize)
		assert.False(t, q.AllRows)
		assert.Equal(t, domain.SortDirection(""), q.SortDirection)
	})

	t.Run("all options", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tickets?search=+alice+&type=VIP&date=2025-01-01&sort=qty&order=DESC&page=3&pageSize=25", nil)

		q, err := ParseTableQuery(req)

		require.NoError(t, err)
		assert.Equal(t, "alice", q.Search)
		assert.Equal(t, "VIP", q.Type)
		assert.Equal(t, "2025-01-01", q.Date)
		assert.Equal(t, "qty", q.SortKey)
		assert.Equal(t, domain.SortDesc, q.SortDirection)
		assert.Equal(t, 3, q.Page)
		assert.Equal(t, 25, q.PageSize)
	})

	t.Run("sort defaults to ascending", func(t *testing.T) {
		q, err := ParseTableQuery(httptest.NewRequest(http.MethodGet, "/tickets?sort=name", nil))

		require.NoError(t, err)
		assert.Equal(t, domain.SortAsc, q.SortDirection)
	})

	t.Run("page size all", func(t *testing.T) {
		q, err := ParseTableQuery(httptest.NewRequest(http.MethodGet, "/tickets?pageSize=All", nil))

		require.NoError(t, err)
		assert.True(t, q.AllRows)
	})

	t.Run("invalid numbers", func(t *testing.T) {
		_, err := ParseTableQuery(httptest.NewRequest(http.MethodGet, "/tickets?page=zero&pageSize=-5", nil))

		var validationErr *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Errors, "page")
		assert.Contains(t, validationErr.Errors, "pageSize")
	})

	t.Run("bad order and long search", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tickets?order=sideways&search="+strings.Repeat("a", maxSearchLength+1), nil)

		_, err := ParseTableQuery(req)

		var validationErr *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Errors, "order")
		assert.Contains(t, validationErr.Errors, "search")
	})
}

func TestDecodeAndValidate(t *testing.T) {
	type body struct {
		Email string `json:"email"`
	}

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co"}`))
		got, err := DecodeAndValidate[body](httptest.NewRecorder(), req)

		require.NoError(t, err)
		assert.Equal(t, "a@b.co", got.Email)
	})

	t.Run("malformed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))
		_, err := DecodeAndValidate[body](httptest.NewRecorder(), req)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusBadRequest, appErr.StatusCode)
	})
}

func TestValidator(t *testing.T) {
	v := NewValidator().
		Required("email", " ").
		Email("contact", "not-an-email").
		MaxLength("name", "abcdef", 3).
		OneOf("order", "sideways", []string{"asc", "desc"})

	require.True(t, v.HasErrors())
	for _, field := range []string{"email", "contact", "name", "order"} {
		assert.Contains(t, v.Errors().Errors, field)
	}

	assert.False(t, NewValidator().Required("email", "x").Email("email", "x@y.io").HasErrors())
}

func TestParseBoolQueryParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?cached=true&bad=maybe", nil)

	assert.True(t, ParseBoolQueryParam(req, "cached", false))
	assert.True(t, ParseBoolQueryParam(req, "bad", true))
	assert.False(t, ParseBoolQueryParam(req, "missing", false))
}
