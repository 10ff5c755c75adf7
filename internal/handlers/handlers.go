package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/yukikurage/tenant-task-api/internal/errors"
	"github.com/yukikurage/tenant-task-api/internal/middleware"
	"github.com/yukikurage/tenant-task-api/internal/services"
)

var registerFieldNames sync.Once

// useJSONFieldNames makes validation errors name fields the way clients send them.
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
}

// currentCaller returns the authenticated caller or writes a 401.
func currentCaller(c *gin.Context) (services.Caller, bool) {
	caller, ok := middleware.CurrentCaller(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return caller, ok
}

// bindJSON decodes the request body into req or writes a 400.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		details := make([]string, len(fieldErrors))
		for i, fe := range fieldErrors {
			details[i] = describeFieldError(fe)
		}
		apierrors.BadRequestWithDetails(c, "Validation failed", details)
		return false
	}

	apierrors.BadRequest(c, "Invalid request body")
	return false
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// nullableString tells an absent JSON field apart from an explicit null.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// cleared reports whether the field was sent as null or as an empty string.
func (n nullableString) cleared() bool {
	return n.Set && (n.Value == nil || strings.TrimSpace(*n.Value) == "")
}

// value returns the non-empty value that was sent, if any.
func (n nullableString) value() *string {
	if !n.Set || n.cleared() {
		return nil
	}
	v := strings.TrimSpace(*n.Value)
	return &v
}

var errInvalidDueDate = errors.New("dueDate must be an RFC 3339 timestamp or a YYYY-MM-DD date")

// parseDueDate accepts a full timestamp or a calendar date (midnight UTC).
func parseDueDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, errInvalidDueDate
}

// optionalDueDate parses a due date field that may be absent.
func optionalDueDate(field nullableString) (*time.Time, error) {
	raw := field.value()
	if raw == nil {
		return nil, nil
	}
	t, err := parseDueDate(*raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
