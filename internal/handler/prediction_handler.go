package handler

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"thyroscan/internal/model"
	"thyroscan/internal/service"
)

// PredictionHandler handles classification and history endpoints.
type PredictionHandler struct {
	predictionService service.PredictionService
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(predictionService service.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService}
}

// PredictResponse is the result of one classification request.
type PredictResponse struct {
	Label         string                     `json:"label"`
	Confidence    float64                    `json:"confidence"` // percentage, 0-100
	Image         string                     `json:"image"`
	Probabilities []service.LabelProbability `json:"probabilities"`
}

// HistoryEntry is one row of the recent-predictions listing.
type HistoryEntry struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	CreatedAt  string  `json:"createdAt"`
	Image      *string `json:"image"`
}

// Predict godoc
// @Summary Classify an uploaded thyroid scan
// @Tags predictions
// @Accept mpfd
// @Produce json
// @Param image formData file true "Scan image (.png, .jpg, .jpeg)"
// @Param email formData string false "Caller identity; anonymous when omitted"
// @Success 200 {object} PredictResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /predict [post]
func (h *PredictionHandler) Predict(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		file = nil // no file part present; the service reports MissingFile
	}
	email := c.FormValue("email")

	result, err := h.predictionService.Classify(c.Request().Context(), file, email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, PredictResponse{
		Label:         result.Label,
		Confidence:    math.Round(result.Confidence*10000) / 100,
		Image:         uploadURL(result.ImagePath),
		Probabilities: result.Probabilities,
	})
}

// Recent godoc
// @Summary List the authenticated user's recent predictions
// @Tags predictions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} HistoryEntry
// @Failure 401 {object} errors.ErrorResponse
// @Router /predictions [get]
func (h *PredictionHandler) Recent(c echo.Context) error {
	email, err := claimEmail(c)
	if err != nil {
		return httpError(err)
	}

	predictions, err := h.predictionService.Recent(c.Request().Context(), email)
	if err != nil {
		return httpError(err)
	}

	entries := make([]HistoryEntry, 0, len(predictions))
	for i := range predictions {
		entries = append(entries, newHistoryEntry(&predictions[i]))
	}
	return c.JSON(http.StatusOK, entries)
}

func newHistoryEntry(p *model.Prediction) HistoryEntry {
	entry := HistoryEntry{
		Label:      p.Label,
		Confidence: p.Confidence,
		CreatedAt:  p.CreatedAt.Format("2006-01-02T15:04:05"),
	}
	if p.ImagePath != "" {
		url := uploadURL(p.ImagePath)
		entry.Image = &url
	}
	return entry
}
