package services

import (
	"errors"

	"github.com/vivmuk/caloriecounter/config"
	"github.com/vivmuk/caloriecounter/models"
	"gorm.io/gorm"
)

var ErrAnalysisNotFound = errors.New("analysis not found")

// ListAnalyses returns one page of the user's history, newest first,
// without item rows (listings only need the summary columns).
func ListAnalyses(userID uint, page, pageSize int) ([]models.Analysis, int64, error) {
	if config.DB == nil {
		return nil, 0, ErrAccountsDisabled
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := config.DB.Model(&models.Analysis{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var analyses []models.Analysis
	err := config.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&analyses).Error
	return analyses, total, err
}

func GetAnalysis(userID, id uint) (*models.Analysis, error) {
	if config.DB == nil {
		return nil, ErrAccountsDisabled
	}
	var analysis models.Analysis
	err := config.DB.Preload("Items").Where("user_id = ?", userID).First(&analysis, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnalysisNotFound
	}
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func DeleteAnalysis(userID, id uint) error {
	if config.DB == nil {
		return ErrAccountsDisabled
	}
	result := config.DB.Where("user_id = ?", userID).Delete(&models.Analysis{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAnalysisNotFound
	}
	return config.DB.Where("analysis_id = ?", id).Delete(&models.AnalysisItem{}).Error
}
