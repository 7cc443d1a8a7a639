package validation

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

const maxSearchLength = 200

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Required validates that a string is not empty
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, "This field is required")
	}
	return v
}

// MaxLength validates maximum string length
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if len(value) > max {
		v.errors.Add(field, "Must be at most "+strconv.Itoa(max)+" characters")
	}
	return v
}

// Email validates email format
func (v *Validator) Email(field, value string) *Validator {
	value = strings.TrimSpace(value)
	if value != "" && !emailRegex.MatchString(value) {
		v.errors.Add(field, "Must be a valid email address")
	}
	return v
}

// OneOf validates value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v // Empty is handled by Required
	}

	for _, a := range allowed {
		if value == a {
			return v
		}
	}

	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// DecodeAndValidate decodes JSON request body and runs basic validation
func DecodeAndValidate[T any](w http.ResponseWriter, r *http.Request) (*T, error) {
	var req T

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, apperrors.NewBadRequestError(err, "Invalid request body")
	}

	return &req, nil
}

// ParseTableQuery reads the ticket table options from the query string:
// search, type, date, sort, order, page and pageSize ("all" for every row).
// Unparseable numbers are reported as validation errors.
func ParseTableQuery(r *http.Request) (domain.TableQuery, error) {
	q := r.URL.Query()
	v := NewValidator()

	query := domain.TableQuery{
		Search:        strings.TrimSpace(q.Get("search")),
		Type:          q.Get("type"),
		Date:          q.Get("date"),
		SortKey:       q.Get("sort"),
		SortDirection: domain.SortDirection(strings.ToLower(q.Get("order"))),
		Page:          1,
		PageSize:      domain.DefaultPageSize,
	}

	v.MaxLength("search", query.Search, maxSearchLength).
		OneOf("order", string(query.SortDirection), []string{string(domain.SortAsc), string(domain.SortDesc)})

	if query.SortKey != "" && query.SortDirection == "" {
		query.SortDirection = domain.SortAsc
	}

	if pageStr := q.Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		v.Custom("page", err == nil && page > 0, "Must be a positive integer")
		if err == nil {
			query.Page = page
		}
	}

	if sizeStr := q.Get("pageSize"); sizeStr != "" {
		if strings.EqualFold(sizeStr, domain.FilterAll) {
			query.AllRows = true
		} else {
			size, err := strconv.Atoi(sizeStr)
			v.Custom("pageSize", err == nil && size > 0, "Must be a positive integer or \"all\"")
			if err == nil {
				query.PageSize = size
			}
		}
	}

	if v.HasErrors() {
		return query, v.Errors()
	}
	return query, nil
}

// ParseBoolQueryParam safely parses a boolean query parameter
func ParseBoolQueryParam(r *http.Request, key string, defaultValue bool) bool {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
