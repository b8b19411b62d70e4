package login

import (
	"encoding/json"
	"fmt"
)

// Field names a credential input
type Field string

const (
	FieldUsername Field = "username"
	FieldPassword Field = "password"
)

// Credentials is the login payload
type Credentials struct {
	Username string `json:"username" validate:"required,min=3" label:"Username"`
	Password string `json:"password" validate:"required,min=6" label:"Password"`
}

// ValidationErrors holds one message per field; "" means the field is fine
type ValidationErrors struct {
	Username string
	Password string
}

// Valid reports whether no field has an error
func (v ValidationErrors) Valid() bool {
	return v.Username == "" && v.Password == ""
}

// Get returns the message for field
func (v ValidationErrors) Get(field Field) string {
	switch field {
	case FieldUsername:
		return v.Username
	case FieldPassword:
		return v.Password
	}
	return ""
}

func (v *ValidationErrors) clear(field Field) {
	switch field {
	case FieldUsername:
		v.Username = ""
	case FieldPassword:
		v.Password = ""
	}
}

// State is the controller's position in the login state machine
type State int

const (
	StateIdle State = iota
	StateValidating
	StateSubmitting
	StateRedirecting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateRedirecting:
		return "redirecting"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome tags a Result
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeLockedOut
	OutcomeInvalidCredentials
	OutcomeNetworkError
	OutcomeValidationFailed
	OutcomeBlocked
	OutcomeSessionError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeLockedOut:
		return "locked_out"
	case OutcomeInvalidCredentials:
		return "invalid_credentials"
	case OutcomeNetworkError:
		return "network_error"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeSessionError:
		return "session_error"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Result is the outcome of one Submit call
type Result struct {
	Outcome Outcome
	// User is the raw authenticated user payload on success
	User json.RawMessage
	// Seconds is the lockout length when Outcome is OutcomeLockedOut
	Seconds int
	Message string
	Errors  ValidationErrors
	Err     error
}

// MessageKind tells a view how to style the status message
type MessageKind int

const (
	MessageNone MessageKind = iota
	MessageInfo
	MessageError
	MessageLockout
)

// View is a snapshot of everything a login form renders
type View struct {
	State            State
	Username         string
	Errors           ValidationErrors
	Message          string
	Kind             MessageKind
	Busy             bool
	SecondsRemaining int
	SubmitLabel      string
	SubmitDisabled   bool
	InputsDisabled   bool
}
