package services

import (
	"errors"

	"github.com/vivmuk/caloriecounter/config"
	"github.com/vivmuk/caloriecounter/models"
	"github.com/vivmuk/caloriecounter/utils"
)

var ErrAccountsDisabled = errors.New("accounts are disabled: no database configured")

func RegisterUser(email, password, fullName string) error {
	if config.DB == nil {
		return ErrAccountsDisabled
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	user := models.User{
		Email:    email,
		Password: hashedPassword,
		FullName: fullName,
	}

	result := config.DB.Create(&user)
	return result.Error
}

func AuthenticateUser(email, password string) (string, error) {
	if config.DB == nil {
		return "", ErrAccountsDisabled
	}

	var user models.User
	result := config.DB.Where("email = ?", email).First(&user)
	if result.Error != nil {
		return "", errors.New("user not found")
	}

	if !utils.CheckPasswordHash(password, user.Password) {
		return "", errors.New("incorrect password")
	}

	return utils.GenerateJWT(user.ID, user.Email)
}

func FindUserByID(id uint) (*models.User, error) {
	if config.DB == nil {
		return nil, ErrAccountsDisabled
	}
	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
