package service

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"thyroscan/internal/classifier"
	apperrors "thyroscan/internal/errors"
	"thyroscan/internal/imaging"
	"thyroscan/internal/model"
	"thyroscan/internal/repository"
	"thyroscan/internal/storage"
)

const (
	recentPredictionsLimit = 10
	recentCacheTTL         = time.Minute
)

// Cache is the byte cache backing read-through caching of recent
// predictions. *cache.Client implements it; a nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
}

// LabelProbability pairs one label with its probability.
type LabelProbability struct {
	Label string  `json:"label"`
	Prob  float64 `json:"prob"`
}

// PredictionResult is the outcome of one classification.
type PredictionResult struct {
	Label         string
	Confidence    float64 // maximum probability, in [0,1]
	ImagePath     string  // stored image path, relative to the upload root
	Probabilities []LabelProbability
}

// PredictionService runs the classification pipeline and serves history.
type PredictionService interface {
	Classify(ctx context.Context, file *multipart.FileHeader, email string) (*PredictionResult, error)
	Recent(ctx context.Context, email string) ([]model.Prediction, error)
}

type predictionService struct {
	classifier     classifier.Classifier // nil when the model failed to load
	store          *storage.Store
	predictionRepo repository.PredictionRepository
	cache          Cache
}

// NewPredictionService creates a prediction service. A nil classifier puts
// the service in degraded mode where every classification fails with
// ErrModelUnavailable.
func NewPredictionService(
	clf classifier.Classifier,
	store *storage.Store,
	predictionRepo repository.PredictionRepository,
	cacheClient Cache,
) PredictionService {
	return &predictionService{
		classifier:     clf,
		store:          store,
		predictionRepo: predictionRepo,
		cache:          cacheClient,
	}
}

func recentPredictionsKey(email string) string {
	return fmt.Sprintf("predictions:recent:%s", email)
}

// cachedPrediction is the cache wire form of a prediction row. The model's
// json tags shape API responses and hide ImagePath, so cached rows get their
// own tags to survive the round-trip intact.
type cachedPrediction struct {
	ID         string    `json:"id"`
	UserEmail  string    `json:"userEmail"`
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"createdAt"`
	ImagePath  string    `json:"imagePath"`
}

func toCachedPredictions(rows []model.Prediction) []cachedPrediction {
	cached := make([]cachedPrediction, len(rows))
	for i, row := range rows {
		cached[i] = cachedPrediction{
			ID:         row.ID,
			UserEmail:  row.UserEmail,
			Label:      row.Label,
			Confidence: row.Confidence,
			CreatedAt:  row.CreatedAt,
			ImagePath:  row.ImagePath,
		}
	}
	return cached
}

func fromCachedPredictions(cached []cachedPrediction) []model.Prediction {
	rows := make([]model.Prediction, len(cached))
	for i, c := range cached {
		rows[i] = model.Prediction{
			ID:         c.ID,
			UserEmail:  c.UserEmail,
			Label:      c.Label,
			Confidence: c.Confidence,
			CreatedAt:  c.CreatedAt,
			ImagePath:  c.ImagePath,
		}
	}
	return rows
}

// Classify validates and stores the upload, runs it through the classifier
// and persists one prediction record. The stored file is deliberately left
// on disk when a later step fails.
func (s *predictionService) Classify(ctx context.Context, file *multipart.FileHeader, email string) (*PredictionResult, error) {
	if file == nil {
		return nil, apperrors.ErrMissingFile
	}
	if file.Filename == "" {
		return nil, apperrors.ErrEmptyFilename
	}
	// Extension check only; a permitted extension with bogus contents is
	// caught later by the decoder.
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, apperrors.ErrUnsupportedType
	}

	imagePath, err := s.store.Save(file, storage.PredictionDir)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	if s.classifier == nil {
		return nil, apperrors.ErrModelUnavailable
	}

	tensor, err := imaging.FromFile(s.store.Abs(imagePath))
	if err != nil {
		return nil, err
	}

	probs, err := s.classifier.Predict(tensor)
	if err != nil {
		return nil, err
	}

	labels := s.classifier.Labels()
	idx, confidence := classifier.Argmax(probs)

	probabilities := make([]LabelProbability, len(labels))
	for i, label := range labels {
		probabilities[i] = LabelProbability{Label: label, Prob: float64(probs[i])}
	}

	if email == "" {
		email = model.AnonymousEmail
	}

	prediction := &model.Prediction{
		UserEmail:  email,
		Label:      labels[idx],
		Confidence: float64(confidence),
		ImagePath:  imagePath,
	}
	if err := s.predictionRepo.Create(ctx, prediction); err != nil {
		return nil, fmt.Errorf("persist prediction: %w", err)
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, recentPredictionsKey(email))
	}

	return &PredictionResult{
		Label:         prediction.Label,
		Confidence:    prediction.Confidence,
		ImagePath:     imagePath,
		Probabilities: probabilities,
	}, nil
}

// Recent returns up to 10 most recent predictions for the given identity,
// newest first. An identity with no records yields an empty slice.
func (s *predictionService) Recent(ctx context.Context, email string) ([]model.Prediction, error) {
	if s.cache == nil {
		return s.predictionRepo.RecentByEmail(ctx, email, recentPredictionsLimit)
	}

	key := recentPredictionsKey(email)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []cachedPrediction
		if err := json.Unmarshal(data, &cached); err == nil {
			return fromCachedPredictions(cached), nil
		}
	}

	predictions, err := s.predictionRepo.RecentByEmail(ctx, email, recentPredictionsLimit)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(toCachedPredictions(predictions)); err == nil {
		_ = s.cache.Set(ctx, key, payload, recentCacheTTL)
	}
	return predictions, nil
}
