package validators

import "strings"

type RegisterRequest struct {
	DisplayName     string `json:"display_name" validate:"not_blank,max=80"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	Age             int    `json:"age" validate:"min=0,max=120"`
	Gender          string `json:"gender" validate:"gender"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func ValidateRegister(req *RegisterRequest) ValidationErrors {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Gender = strings.ToLower(strings.TrimSpace(req.Gender))
	return ValidateStruct(req)
}

func ValidateLogin(req *LoginRequest) ValidationErrors {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	return ValidateStruct(req)
}
