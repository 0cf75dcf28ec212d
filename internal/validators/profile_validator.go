package validators

import "strings"

type UpdateProfileRequest struct {
	DisplayName     string `json:"display_name" validate:"not_blank,max=80"`
	Age             int    `json:"age" validate:"min=0,max=120"`
	Gender          string `json:"gender" validate:"gender"`
	City            string `json:"city" validate:"max=80"`
	Bio             string `json:"bio" validate:"max=500"`
	ProfileImageURL string `json:"profile_image_url" validate:"omitempty,url"`
}

type SelectCityRequest struct {
	City string `json:"city" validate:"not_blank,max=80"`
}

type DeviceTokenRequest struct {
	Token string `json:"token" validate:"max=4096"`
}

func ValidateUpdateProfile(req *UpdateProfileRequest) ValidationErrors {
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.City = strings.TrimSpace(req.City)
	req.Bio = strings.TrimSpace(req.Bio)
	req.Gender = strings.ToLower(strings.TrimSpace(req.Gender))
	return ValidateStruct(req)
}

func ValidateSelectCity(req *SelectCityRequest) ValidationErrors {
	req.City = strings.TrimSpace(req.City)
	return ValidateStruct(req)
}
