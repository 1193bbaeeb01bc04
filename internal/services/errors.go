package services

import "errors"

// ErrorKind classifies lifecycle failures independently of any transport.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindEmailConflict
	KindInvalidCredentials
	KindAlreadyActive
	KindInvalidCode
	KindCodeExpired
	KindAccountNotFound
	KindValidation
	KindUnavailable
)

var kindNames = map[ErrorKind]string{
	KindUnknown:            "unknown",
	KindEmailConflict:      "email_conflict",
	KindInvalidCredentials: "invalid_credentials",
	KindAlreadyActive:      "already_active",
	KindInvalidCode:        "invalid_code",
	KindCodeExpired:        "code_expired",
	KindAccountNotFound:    "account_not_found",
	KindValidation:         "validation",
	KindUnavailable:        "unavailable",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Error is a lifecycle failure of a given kind. Two Errors match with
// errors.Is when their kinds are equal, so wrapped causes do not hide the kind.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Error variables
var (
	ErrEmailConflict      = &Error{Kind: KindEmailConflict, Message: "a user with this email already exists"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "invalid credentials"}
	ErrAlreadyActive      = &Error{Kind: KindAlreadyActive, Message: "user is already activated"}
	ErrInvalidCode        = &Error{Kind: KindInvalidCode, Message: "invalid activation code"}
	ErrCodeExpired        = &Error{Kind: KindCodeExpired, Message: "activation code has expired, please request a new one"}
	ErrAccountNotFound    = &Error{Kind: KindAccountNotFound, Message: "user not found"}
	ErrValidation         = &Error{Kind: KindValidation, Message: "invalid request"}
	ErrUnavailable        = &Error{Kind: KindUnavailable, Message: "service temporarily unavailable"}
)

// Validation wraps an input shape error.
func Validation(err error) error {
	return &Error{Kind: KindValidation, Message: ErrValidation.Message, Err: err}
}

// unavailable wraps an infrastructure failure, keeping the cause for logs.
func unavailable(err error) error {
	return &Error{Kind: KindUnavailable, Message: ErrUnavailable.Message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
