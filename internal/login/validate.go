package login

import "github.com/BradenHooton/folio/internal/validation"

// Validate checks credentials: username at least 3 characters, password at
// least 6, both required. It has no side effects.
func Validate(creds Credentials) ValidationErrors {
	errs := validation.Struct(creds)
	return ValidationErrors{
		Username: errs.Get(string(FieldUsername)),
		Password: errs.Get(string(FieldPassword)),
	}
}
