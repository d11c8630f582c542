package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/vivmuk/caloriecounter/config"
	"github.com/vivmuk/caloriecounter/models"
	"github.com/vivmuk/caloriecounter/utils"
)

// AnalyzeRequest is the wire form of an analysis request.
type AnalyzeRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
	Provider    string `json:"model,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

// AnalysisResponse wraps a pipeline result with everything added after the
// models are done: photo URL, guard labels, and the saved row's id.
type AnalysisResponse struct {
	*PipelineResult
	PhotoURL    string   `json:"photo_url,omitempty"`
	GuardLabels []string `json:"guard_labels,omitempty"`
	AnalysisID  uint     `json:"analysis_id,omitempty"`
}

// AnalysisService glues the whole flow together: validate, pre-screen,
// run the pipeline, cross-check, store, notify.
type AnalysisService struct {
	pipeline *PipelineService
	edamam   *EdamamService
	guard    *RekognitionService
	hub      *RealtimeHub
}

func NewAnalysisService(pipeline *PipelineService, edamam *EdamamService, guard *RekognitionService, hub *RealtimeHub) *AnalysisService {
	return &AnalysisService{pipeline: pipeline, edamam: edamam, guard: guard, hub: hub}
}

// DecodeImage validates the request's data URI. Split out so the compare
// flow reuses it.
func (s *AnalysisService) DecodeImage(req AnalyzeRequest) (AnalyzeInput, error) {
	contentType, data, err := utils.ParseImageDataURI(req.ImageBase64)
	if err != nil {
		return AnalyzeInput{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return AnalyzeInput{
		ContentType: contentType,
		Image:       data,
		Notes:       req.Notes,
		Provider:    req.Provider,
	}, nil
}

// Analyze runs one photo through the full flow. userID 0 means anonymous:
// no persistence, no websocket events.
func (s *AnalysisService) Analyze(ctx context.Context, userID uint, req AnalyzeRequest) (*AnalysisResponse, error) {
	in, err := s.DecodeImage(req)
	if err != nil {
		return nil, err
	}

	// Fold the user's standing dietary notes into the prompt context.
	if userID != 0 && config.DB != nil {
		if user, err := FindUserByID(userID); err == nil && user.DietaryNotes != "" {
			if in.Notes == "" {
				in.Notes = user.DietaryNotes
			} else {
				in.Notes += "; " + user.DietaryNotes
			}
		}
	}

	var guardLabels []string
	if s.guard != nil {
		ok, labels, err := s.guard.LooksLikeFood(ctx, in.Image)
		if err != nil {
			// The guard is an optimization, never a gate when it breaks.
			log.Printf("analysis: rekognition pre-screen failed: %v", err)
		} else {
			guardLabels = labels
			if !ok {
				return nil, ErrNoFoodDetected
			}
		}
	}

	result, err := s.pipeline.Analyze(ctx, in)
	if err != nil {
		return nil, err
	}

	if s.edamam != nil {
		s.edamam.AnnotateItems(&result.Estimate)
	}

	response := &AnalysisResponse{PipelineResult: result, GuardLabels: guardLabels}

	if utils.S3Enabled() {
		photoURL, err := utils.UploadFoodPhoto(in.ContentType, in.Image, fmt.Sprintf("user-%d", userID))
		if err != nil {
			log.Printf("analysis: photo upload failed: %v", err)
		} else {
			response.PhotoURL = photoURL
		}
	}

	if userID != 0 && config.DB != nil {
		if id, err := s.persist(userID, response); err != nil {
			log.Printf("analysis: failed to save history for user %d: %v", userID, err)
		} else {
			response.AnalysisID = id
		}
		if s.hub != nil {
			s.hub.Broadcast(userID, "analysis.completed", response)
		}
	}

	return response, nil
}

func (s *AnalysisService) persist(userID uint, resp *AnalysisResponse) (uint, error) {
	est := &resp.Estimate

	raw, err := json.Marshal(est)
	if err != nil {
		return 0, err
	}

	analysis := models.Analysis{
		UserID:      userID,
		PhotoURL:    resp.PhotoURL,
		Provider:    resp.Provider,
		AIModel:     resp.VisionModel,
		MealName:    est.MealName,
		Calories:    est.Totals.Calories,
		Protein:     est.Totals.Protein,
		Carbs:       est.Totals.Carbs,
		Fat:         est.Totals.Fat,
		Confidence:  est.Confidence,
		RawEstimate: string(raw),
		Description: resp.Description,
	}
	for _, item := range est.Items {
		row := models.AnalysisItem{
			Name:     item.Name,
			Portion:  item.Portion,
			Grams:    item.Grams,
			Calories: item.Calories,
			Protein:  item.Protein,
			Carbs:    item.Carbs,
			Fat:      item.Fat,
		}
		if item.DBMatch != nil {
			row.DBFoodID = item.DBMatch.FoodID
			row.DBLabel = item.DBMatch.Label
			row.DBCaloriesPer100g = item.DBMatch.CaloriesPer100g
		}
		analysis.Items = append(analysis.Items, row)
	}

	if err := config.DB.Create(&analysis).Error; err != nil {
		return 0, err
	}
	return analysis.ID, nil
}
