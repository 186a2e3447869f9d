package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"

	"github.com/jbweber/homelab/poke/internal/domain"
	"github.com/jbweber/homelab/poke/internal/repository"
	"github.com/jbweber/homelab/poke/internal/security"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error  string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

// FieldError describes one invalid request field
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

var validate = newValidator()

// newValidator reports fields by their JSON names and adds the maxbytes
// and movecategory tags
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// max counts runes; bcrypt limits bytes
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("movecategory", func(fl validator.FieldLevel) bool {
		c, ok := fl.Field().Interface().(domain.MoveCategory)
		return ok && c.Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, fields ...FieldError) {
	writeJSON(w, r, status, ErrorResponse{Error: msg, Fields: fields})
}

// parseID reads the {id} path parameter, writing a 400 when it is not a
// positive integer
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}

// decode reads the JSON body into dst and validates it, writing a 400 on
// failure
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid JSON")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			writeError(w, r, http.StatusBadRequest, "Validation failed", fieldErrors(verrs)...)
			return false
		}
		hlog.FromRequest(r).Error().Err(err).Msg("failed to validate request")
		writeError(w, r, http.StatusBadRequest, "Invalid request")
		return false
	}

	return true
}

func fieldErrors(verrs validator.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "min":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}
		case "max":
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", fe.Param())
			}
		case "gt":
			msg = fmt.Sprintf("must be greater than %s", fe.Param())
		case "maxbytes":
			msg = fmt.Sprintf("must not exceed %s bytes", fe.Param())
		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", fe.Param())
		case "movecategory":
			msg = fmt.Sprintf("must be one of: %s %s %s",
				domain.CategoryPhysical, domain.CategorySpecial, domain.CategoryStatus)
		case "email":
			msg = "must be a valid email address"
		case "alphanum":
			msg = "must contain only letters and digits"
		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("%s:%s", fe.Tag(), fe.Param())
			} else {
				msg = fe.Tag()
			}
		}

		fields = append(fields, FieldError{Field: fe.Field(), Error: msg})
	}
	return fields
}

// writeRepositoryError maps a repository failure onto a status code.
// Storage details are logged, never returned.
func writeRepositoryError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, r, http.StatusNotFound, fmt.Sprintf("%s not found.", entity))
	case errors.Is(err, repository.ErrDuplicate):
		writeError(w, r, http.StatusConflict, fmt.Sprintf("%s already exists.", entity))
	case errors.Is(err, repository.ErrInvalidReference):
		writeError(w, r, http.StatusConflict, fmt.Sprintf("%s conflicts with related records.", entity))
	case errors.Is(err, security.ErrPasswordTooLong):
		writeError(w, r, http.StatusBadRequest, "Validation failed",
			FieldError{Field: "password", Error: fmt.Sprintf("must not exceed %d bytes", security.MaxPasswordBytes)})
	default:
		hlog.FromRequest(r).Error().Err(err).Str("entity", entity).Msg("repository call failed")
		writeError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
