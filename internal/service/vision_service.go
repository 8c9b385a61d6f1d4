package service

import (
	"context"
	"time"

	"aquatech-web/internal/dto"
	"aquatech-web/internal/vision"

	"github.com/patrickmn/go-cache"
)

const visionFeedbackTTL = time.Hour

// IVisionService turns analysis payloads into feedback cards. Payloads are
// transient; only the latest one per browser session and product is kept, so
// the product page can render it again.
type IVisionService interface {
	Extract(raw []byte) (*dto.ExtractionResponse, error)
	Card(raw []byte) (vision.Card, error)
	Record(ctx context.Context, sessionID, modelId string, raw []byte) (*dto.ExtractionResponse, error)
	Latest(sessionID, modelId string) *vision.Payload
}

type visionService struct {
	cache *cache.Cache
}

func NewVisionService() IVisionService {
	return &visionService{cache: cache.New(visionFeedbackTTL, 10*time.Minute)}
}

func toExtractionResponse(card vision.Card) *dto.ExtractionResponse {
	if !card.Visible {
		return &dto.ExtractionResponse{Observations: []string{}}
	}
	return &dto.ExtractionResponse{
		Visible:         true,
		Confidence:      card.Confidence,
		ConfidenceLabel: card.ConfidenceLabel(),
		Shape:           string(card.Observations.Shape),
		Observations:    card.Observations.Lines,
	}
}

func (s *visionService) Extract(raw []byte) (*dto.ExtractionResponse, error) {
	card, err := s.Card(raw)
	if err != nil {
		return nil, err
	}
	return toExtractionResponse(card), nil
}

func (s *visionService) Card(raw []byte) (vision.Card, error) {
	payload, err := vision.ParsePayload(raw)
	if err != nil {
		return vision.Card{}, err
	}
	return vision.Present(payload), nil
}

func feedbackKey(sessionID, modelId string) string {
	return sessionID + "|" + modelId
}

func (s *visionService) Record(ctx context.Context, sessionID, modelId string, raw []byte) (*dto.ExtractionResponse, error) {
	payload, err := vision.ParsePayload(raw)
	if err != nil {
		return nil, err
	}

	key := feedbackKey(sessionID, modelId)
	if payload == nil {
		s.cache.Delete(key)
	} else {
		s.cache.Set(key, payload, cache.DefaultExpiration)
	}
	return toExtractionResponse(vision.Present(payload)), nil
}

func (s *visionService) Latest(sessionID, modelId string) *vision.Payload {
	if v, ok := s.cache.Get(feedbackKey(sessionID, modelId)); ok {
		return v.(*vision.Payload)
	}
	return nil
}
