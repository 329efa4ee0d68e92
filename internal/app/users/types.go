package users

import "github.com/gunjanbelwal79/TRAVELTINDER/internal/domain"

// Optional is a tri-state field used to distinguish:
// - unspecified (omitted)
// - specified as null
// - specified with a value
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

type RegisterInput struct {
	AccountKey  string
	Credential  string
	DisplayName string
	Phone       *string
}

// UpdateProfileInput patches the caller's profile. Omitted fields are kept, null clears,
// a value replaces.
type UpdateProfileInput struct {
	Name             Optional[string] // cannot be null
	Phone            Optional[string]
	Bio              Optional[string]
	Location         Optional[string]
	Interests        Optional[[]string]
	EmergencyContact Optional[string]
}

// Session is the result of a successful registration or login.
type Session struct {
	User  domain.User
	Token domain.SessionToken
}
