package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mentorlink/mentorship-service/internal/models"
)

// ValidationError describes a single failed rule on a request field.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return strings.Join(msgs, "; ")
}

func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Validator wraps go-playground/validator with the domain rules of the
// mentorship service.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	v := &Validator{validate: validator.New()}
	v.registerDomainRules()
	return v
}

// Validate runs struct-tag validation on any request struct.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err != nil {
		return toValidationErrors(err)
	}
	return nil
}

func (v *Validator) registerDomainRules() {
	// Role descriptor: every token must be a known role.
	v.validate.RegisterValidation("role_tokens", func(fl validator.FieldLevel) bool {
		tokens := models.ParseRoleList(fl.Field().String())
		if len(tokens) == 0 {
			return false
		}
		for _, t := range tokens {
			switch models.RoleTag(t) {
			case models.RoleStudent, models.RoleMentor, models.RoleAdmin:
			default:
				return false
			}
		}
		return true
	})

	// Verification status must be one of the pipeline states.
	v.validate.RegisterValidation("verification_status", func(fl validator.FieldLevel) bool {
		return models.VerificationStatus(fl.Field().String()).IsValid()
	})

	// Request status reachable through the mentor-response endpoint.
	v.validate.RegisterValidation("request_response", func(fl validator.FieldLevel) bool {
		switch models.RequestStatus(fl.Field().String()) {
		case models.RequestAccepted, models.RequestDeclined:
			return true
		}
		return false
	})

	v.validate.RegisterValidation("full_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return len(name) >= 2 && len(name) <= 100
	})
}

func toValidationErrors(err error) ValidationErrors {
	var out ValidationErrors

	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrors {
			out = append(out, ValidationError{
				Field:   strings.ToLower(fe.Field()),
				Message: messageForTag(fe),
				Value:   fe.Value(),
				Rule:    fe.Tag(),
			})
		}
		return out
	}

	return ValidationErrors{{Field: "request", Message: err.Error(), Rule: "invalid"}}
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "role_tokens":
		return "must contain only known roles (student, mentor, admin)"
	case "verification_status":
		return "must be a valid verification status"
	case "request_response":
		return "must be accepted or declined"
	case "full_name":
		return "must be between 2 and 100 characters"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
