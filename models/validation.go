// validation.go - Field rules for the models and the messages clients see

package models

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators" // notblank

	"go-course-api/apierror"
)

const (
	PasswordMinLen = 8  // characters, not bytes
	PasswordMaxLen = 20 // characters, not bytes

	// bcrypt rejects anything longer than this many bytes
	PasswordMaxBytes = 72
)

// User-facing validation messages.
const (
	MsgFirstNameRequired   = `Please provide a value for "firstName"`
	MsgLastNameRequired    = `Please provide a value for "lastName"`
	MsgEmailRequired       = `Please provide a value for "email"`
	MsgEmailInvalid        = `Please provide a valid email address`
	MsgEmailTaken          = `The email you entered already exists`
	MsgPasswordRequired    = `Please provide a value for "password"`
	MsgPasswordLength      = `The password should be between 8 and 20 characters in length`
	MsgTitleRequired       = `Please provide a value for "title"`
	MsgDescriptionRequired = `Please provide a value for "description"`
)

var validate = newValidator()

// newValidator returns a validator that also knows "notblank", which
// rejects strings made only of whitespace
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err) // only fails on an empty tag name
	}
	return v
}

// fieldMessages maps "StructField.tag" to the message shown to clients.
// "required" and "notblank" share a message: both mean no value was given.
var fieldMessages = map[string]string{
	"FirstName.required":    MsgFirstNameRequired,
	"FirstName.notblank":    MsgFirstNameRequired,
	"LastName.required":     MsgLastNameRequired,
	"LastName.notblank":     MsgLastNameRequired,
	"EmailAddress.required": MsgEmailRequired,
	"EmailAddress.notblank": MsgEmailRequired,
	"EmailAddress.email":    MsgEmailInvalid,
	"Title.required":        MsgTitleRequired,
	"Title.notblank":        MsgTitleRequired,
	"Description.required":  MsgDescriptionRequired,
	"Description.notblank":  MsgDescriptionRequired,
}

// structMessages runs the validate tags on v and translates each failure.
func structMessages(v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if msg, ok := fieldMessages[fe.StructField()+"."+fe.Tag()]; ok {
			messages = append(messages, msg)
			continue
		}
		messages = append(messages, fe.Error())
	}
	return messages
}

func validationError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return apierror.NewValidationError(messages...)
}
