package services

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// RekognitionService is an optional pre-screen: a cheap label detection
// that rejects obviously foodless photos before any provider tokens are
// spent. Analyses run without it when AWS is not configured.
type RekognitionService struct {
	client *rekognition.Client
}

func NewRekognitionService() (*RekognitionService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &RekognitionService{client: rekognition.NewFromConfig(cfg)}, nil
}

var foodLabels = map[string]bool{
	"Food":     true,
	"Beverage": true,
	"Drink":    true,
	"Meal":     true,
	"Dish":     true,
	"Dessert":  true,
	"Fruit":    true,
	"Snack":    true,
	"Produce":  true,
}

// LooksLikeFood returns the detected labels along with whether any of them
// (or their parents) are food related.
func (r *RekognitionService) LooksLikeFood(ctx context.Context, imageData []byte) (bool, []string, error) {
	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: imageData},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(55),
	})
	if err != nil {
		return false, nil, err
	}

	var labels []string
	found := false
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		labels = append(labels, *l.Name)
		if foodLabels[*l.Name] {
			found = true
		}
		for _, parent := range l.Parents {
			if parent.Name != nil && foodLabels[*parent.Name] {
				found = true
			}
		}
	}
	return found, labels, nil
}
