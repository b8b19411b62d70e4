package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `json:"username" validate:"required,min=3" label:"Username"`
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"otp" validate:"omitempty,len=6,numeric" label:"Code"`
	Action   string `json:"action" validate:"omitempty,oneof=dismiss remove warn" label:"Action"`
}

func TestStruct_Valid(t *testing.T) {
	errs := Struct(signup{Username: "alice", Email: "alice@example.com"})
	assert.Nil(t, errs)
	assert.NoError(t, Request(signup{Username: "alice", Email: "alice@example.com"}))
}

func TestStruct_ReportsFieldsInOrder(t *testing.T) {
	errs := Struct(&signup{Username: "al", Email: "nope", Code: "12a456", Action: "ban"})
	require.Len(t, errs, 4)

	assert.Equal(t, "username", errs[0].Field)
	assert.Equal(t, "Username must be at least 3 characters", errs[0].Message)
	assert.Equal(t, "email", errs[1].Field)
	assert.Equal(t, "Email must be a valid email address", errs[1].Message)
	assert.Equal(t, "Code must contain only digits", errs.Get("otp"))
	assert.Equal(t, "Action must be one of: dismiss remove warn", errs.Get("action"))
}

func TestStruct_Required(t *testing.T) {
	errs := Struct(signup{})
	assert.Equal(t, "Username is required", errs.Get("username"))
	assert.Equal(t, "Email is required", errs.Get("email"))
	assert.Empty(t, errs.Get("otp"))
}

func TestRequest_FirstErrorMessage(t *testing.T) {
	err := Request(signup{Username: "alice"})
	require.Error(t, err)
	assert.Equal(t, "validation failed: email: Email is required", err.Error())
}
