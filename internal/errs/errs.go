package errs

import (
	"errors"
	"strings"
)

const (
	// NotFound is returned when a post, group or author cannot be
	// resolved from the identifier in the request.
	NotFound modelError = "yatube: resource not found"
	// AuthenticationRequired is returned when an anonymous viewer
	// reaches an operation that needs an identity.
	AuthenticationRequired modelError = "yatube: authentication required"
	// TextRequired is returned when a post or comment is submitted
	// with blank text.
	TextRequired modelError = "yatube: text must not be empty"
	// GroupNotFound is returned when a post form references a group
	// that does not exist.
	GroupNotFound modelError = "yatube: selected group does not exist"

	UsernameRequired   modelError = "yatube: username is required"
	UsernameTaken      modelError = "yatube: username is already taken"
	PasswordTooShort   modelError = "yatube: password must be at least 8 characters long"
	PasswordMismatch   modelError = "yatube: the two passwords do not match"
	InvalidCredentials modelError = "yatube: incorrect username or password"

	PageInvalid   modelError = "yatube: page number and size must be positive"
	FilterInvalid modelError = "yatube: unknown feed filter"

	// ImageInvalid is returned for uploads that are not images or are too large.
	ImageInvalid modelError = "yatube: only image files up to 10MB are allowed"
)

type modelError string

func (e modelError) Error() string {
	return string(e)
}

// Public strips the package prefix and capitalizes the message so it
// can be shown next to a form field.
func (e modelError) Public() string {
	s := strings.Replace(string(e), "yatube: ", "", 1)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ValidationError reports an invalid form field.
type ValidationError struct {
	Field string
	Err   error
}

func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Message returns the user-facing text of the wrapped error.
func (e *ValidationError) Message() string {
	return Public(e.Err)
}

// Public returns a message safe to render for err.
func Public(err error) string {
	var me modelError
	if errors.As(err, &me) {
		return me.Public()
	}
	return "Something went wrong"
}

// FieldErrors collects validation errors keyed by field name. Errors
// that are not validation errors are returned as-is in the second
// value so handlers can turn them into a server error.
func FieldErrors(err error) (map[string]string, error) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return map[string]string{ve.Field: ve.Message()}, nil
	}
	return nil, err
}

func IsNotFound(err error) bool {
	return errors.Is(err, NotFound)
}
