package services

import (
	"github.com/sirupsen/logrus"
	"github.com/summarly/summarly-backend/internal/config"
	"github.com/summarly/summarly-backend/internal/repository"
	"github.com/summarly/summarly-backend/internal/summarizer"
)

// Services holds all service instances
type Services struct {
	Summary *SummaryService
}

// NewServices creates all service instances. The engine choice is the swap
// point for a real summarization model.
func NewServices(summaryRepo repository.SummaryRepository, cfg *config.Config, logger *logrus.Logger) *Services {
	var engine summarizer.Engine
	switch cfg.Summary.Engine {
	case "openai":
		engine = summarizer.NewOpenAIEngine(cfg.Summary.OpenAIKey, cfg.Summary.OpenAIModel)
		logger.WithField("model", cfg.Summary.OpenAIModel).Info("Using OpenAI summary engine")
	default:
		engine = summarizer.NewMockEngine()
	}

	return &Services{
		Summary: NewSummaryService(summaryRepo, engine, cfg.Summary, logger),
	}
}
