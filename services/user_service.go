package services

import (
	"github.com/vivmuk/caloriecounter/config"
	"github.com/vivmuk/caloriecounter/models"
)

type ProfileInput struct {
	FullName     string `json:"full_name"`
	DietaryNotes string `json:"dietary_notes"`
}

// Profile is the outward view of a user account. The password hash never
// leaves the service layer.
type Profile struct {
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	DietaryNotes string `json:"dietary_notes"`
}

func GetUserProfile(userID uint) (*Profile, error) {
	user, err := FindUserByID(userID)
	if err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

// UpdateUserProfile overwrites the editable fields. Dietary notes feed the
// nutrition prompt on later analyses, so clearing them is a valid update.
func UpdateUserProfile(userID uint, input ProfileInput) (*Profile, error) {
	user, err := FindUserByID(userID)
	if err != nil {
		return nil, err
	}

	user.FullName = input.FullName
	user.DietaryNotes = input.DietaryNotes
	if err := config.DB.Save(user).Error; err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

func profileOf(user *models.User) *Profile {
	return &Profile{
		Email:        user.Email,
		FullName:     user.FullName,
		DietaryNotes: user.DietaryNotes,
	}
}
