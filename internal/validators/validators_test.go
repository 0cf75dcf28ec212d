package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegister(t *testing.T) {
	req := &RegisterRequest{
		DisplayName:     " Ada ",
		Email:           " Ada@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Gender:          "Female",
	}

	assert.Empty(t, ValidateRegister(req))
	assert.Equal(t, "ada@example.com", req.Email)
	assert.Equal(t, "Ada", req.DisplayName)
	assert.Equal(t, "female", req.Gender)
}

func TestValidateRegister_Failures(t *testing.T) {
	req := &RegisterRequest{
		DisplayName:     "  ",
		Email:           "not-an-email",
		Password:        "12345",
		ConfirmPassword: "54321",
		Gender:          "robot",
	}

	errs := ValidateRegister(req)
	details := errs.Details()

	assert.Contains(t, details, "display_name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "confirm_password")
	assert.Contains(t, details, "gender")
}

func TestValidate_ReturnsNilWhenValid(t *testing.T) {
	assert.NoError(t, Validate(&SelectCityRequest{City: "İzmir"}))

	err := Validate(&SelectCityRequest{City: " "})
	require.Error(t, err)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "city", verrs[0].Field)
}

func TestValidateUpdateProfile_AgeBounds(t *testing.T) {
	req := &UpdateProfileRequest{DisplayName: "Ada", Age: 121}
	errs := ValidateUpdateProfile(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "age", errs[0].Field)
}

func TestParseObjectID(t *testing.T) {
	_, err := ParseObjectID("nope")
	assert.ErrorIs(t, err, ErrInvalidObjectID)

	id, err := ParseObjectID("507f1f77bcf86cd799439011")
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", id.Hex())
}
