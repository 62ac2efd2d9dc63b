package authn

import (
	"github.com/kbukum/authsvc/errors"
	"github.com/kbukum/authsvc/validation"
)

// RegisterInput is the payload of Register.
type RegisterInput struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email_shape"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN"`
}

// LoginInput is the payload of Login.
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FederatedInput is the payload of FederatedLogin.
type FederatedInput struct {
	IDToken string `json:"idToken" validate:"required"`
}

// tagMessages orders validator tags by precedence. The first tag present
// among the field errors picks the message.
type tagMessages []struct {
	tag     string
	message string
}

var registerMessages = tagMessages{
	{"required", MsgRegisterRequired},
	{validation.TagEmailShape, MsgInvalidEmail},
	{"min", MsgPasswordTooShort},
	{"oneof", MsgInvalidRole},
}

var loginMessages = tagMessages{{"required", MsgLoginRequired}}

var federatedMessages = tagMessages{{"required", MsgIDTokenRequired}}

// check validates in and collapses field errors into one client message.
// The field errors stay attached as details.
func check(in any, messages tagMessages) *errors.AppError {
	err := validation.Validate(in)
	if err == nil {
		return nil
	}
	fields := validation.Fields(err)
	for _, m := range messages {
		for _, f := range fields {
			if f.Tag == m.tag {
				return errors.Validation(m.message).WithDetail("fields", fields).WithCause(err)
			}
		}
	}
	return errors.Validation(messages[0].message).WithCause(err)
}
