package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/vivmuk/caloriecounter/models"
)

// EdamamService cross-checks model estimates against the Edamam food
// database. Everything here is best effort: a miss or an API failure never
// fails an analysis.
type EdamamService struct {
	appID, appKey string
	baseURL       string
	client        *http.Client
}

func NewEdamamService() *EdamamService {
	return &EdamamService{
		appID:   os.Getenv("EDAMAM_APP_ID"),
		appKey:  os.Getenv("EDAMAM_APP_KEY"),
		baseURL: "https://api.edamam.com",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *EdamamService) Enabled() bool {
	return s.appID != "" && s.appKey != ""
}

type foodParserResponse struct {
	Hints []struct {
		Food struct {
			FoodID    string `json:"foodId"`
			Label     string `json:"label"`
			Category  string `json:"category"`
			Nutrients struct {
				Kcal float64 `json:"ENERC_KCAL"`
			} `json:"nutrients"`
		} `json:"food"`
	} `json:"hints"`
}

// MatchItem looks a single item name up in the parser endpoint and returns
// the first hint. Nutrients in parser hints are per 100g.
func (s *EdamamService) MatchItem(name string) (*models.FoodMatch, error) {
	u := fmt.Sprintf(
		"%s/api/food-database/v2/parser?ingr=%s&app_id=%s&app_key=%s",
		s.baseURL, url.QueryEscape(name), s.appID, s.appKey,
	)

	resp, err := s.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("failed to call Edamam parser: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Edamam parser response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edamam parser API error %d: %s", resp.StatusCode, string(body))
	}

	var pr foodParserResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return nil, fmt.Errorf("failed to parse Edamam parser JSON: %w", err)
	}
	if len(pr.Hints) == 0 {
		return nil, nil
	}

	hit := pr.Hints[0].Food
	return &models.FoodMatch{
		FoodID:          hit.FoodID,
		Label:           hit.Label,
		Category:        hit.Category,
		CaloriesPer100g: hit.Nutrients.Kcal,
	}, nil
}

// AnnotateItems attaches a db_match to every item it can resolve. Lookups
// run sequentially; item lists are short and the client timeout bounds the
// worst case.
func (s *EdamamService) AnnotateItems(est *models.NutritionEstimate) {
	if !s.Enabled() {
		return
	}
	for i := range est.Items {
		match, err := s.MatchItem(est.Items[i].Name)
		if err != nil || match == nil {
			continue
		}
		est.Items[i].DBMatch = match
	}
}
