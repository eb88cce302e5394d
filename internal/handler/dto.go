package handler

// dto.go holds the typed request bodies and their declarative validation.
// Input is validated at the edge, before any domain logic executes; failures
// surface as one 422 envelope entry per field with a JSON-pointer source.

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/users-service/internal/response"
)

var validate = validator.New()

var (
	usernameRe      = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	passwordUpperRe = regexp.MustCompile(`[A-Z]`)
	passwordLowerRe = regexp.MustCompile(`[a-z]`)
	passwordDigitRe = regexp.MustCompile(`\d`)
)

type registerReq struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	// No role field: public registration always creates USER accounts. A
	// role value in the body is silently dropped by the JSON decoder.
}

// Validate checks tag constraints plus the character-class rules the tags
// cannot express.
func (r *registerReq) Validate() *response.ValidationError {
	fields := tagErrors(validate.Struct(r))
	if r.Username != "" && !usernameRe.MatchString(r.Username) {
		fields = append(fields, response.FieldError{
			Field:   "username",
			Message: "Username can only contain letters, numbers, hyphens and underscores.",
		})
	}
	if r.Password != "" {
		if !passwordUpperRe.MatchString(r.Password) {
			fields = append(fields, response.FieldError{
				Field:   "password",
				Message: "Password must contain at least one uppercase letter.",
			})
		}
		if !passwordLowerRe.MatchString(r.Password) {
			fields = append(fields, response.FieldError{
				Field:   "password",
				Message: "Password must contain at least one lowercase letter.",
			})
		}
		if !passwordDigitRe.MatchString(r.Password) {
			fields = append(fields, response.FieldError{
				Field:   "password",
				Message: "Password must contain at least one digit.",
			})
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return &response.ValidationError{Fields: fields}
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginReq) Validate() *response.ValidationError {
	if fields := tagErrors(validate.Struct(r)); len(fields) > 0 {
		return &response.ValidationError{Fields: fields}
	}
	return nil
}

type updateEmailReq struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

func (r *updateEmailReq) Validate() *response.ValidationError {
	if fields := tagErrors(validate.Struct(r)); len(fields) > 0 {
		return &response.ValidationError{Fields: fields}
	}
	return nil
}

type deactivateReq struct {
	Reason string `json:"reason" validate:"max=200"`
}

func (r *deactivateReq) Validate() *response.ValidationError {
	if fields := tagErrors(validate.Struct(r)); len(fields) > 0 {
		return &response.ValidationError{Fields: fields}
	}
	return nil
}

// tagErrors converts validator failures into per-field errors with messages
// matching the API's documented wording.
func tagErrors(err error) []response.FieldError {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []response.FieldError{{Message: err.Error()}}
	}
	out := make([]response.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		out = append(out, response.FieldError{Field: field, Message: fieldMessage(field, fe)})
	}
	return out
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "The '" + field + "' field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		switch field {
		case "username":
			return "Username must be at least " + fe.Param() + " characters long."
		case "password":
			return "Password must be at least " + fe.Param() + " characters long."
		}
	case "max":
		switch field {
		case "email":
			return "Email must not exceed " + fe.Param() + " characters."
		case "username":
			return "Username must not exceed " + fe.Param() + " characters."
		case "password":
			return "Password must not exceed " + fe.Param() + " characters."
		case "reason":
			return "Reason must not exceed " + fe.Param() + " characters."
		}
	}
	return "The '" + field + "' field is invalid."
}
