package quiz

import (
	"context"
	"fmt"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/business/recommendation"
	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/metrics"
)

// CatalogProvider contract interface
type CatalogProvider interface {
	ActiveCatalog(ctx context.Context) ([]domain.Product, error)
}

// LeadCreator contract interface
type LeadCreator interface {
	CreateLead(ctx context.Context, lead *domain.Lead, productIDs []uint64) (domain.Lead, error)
}

const sourceQuiz = "quiz"

type quizService struct {
	catalog CatalogProvider
	leads   LeadCreator
	engine  *recommendation.Engine
}

func NewQuizService(catalog CatalogProvider, leads LeadCreator, engine *recommendation.Engine) *quizService {
	return &quizService{
		catalog: catalog,
		leads:   leads,
		engine:  engine,
	}
}

// Recommend runs the rules on one catalog snapshot. When contact data is
// present the lead is stored too; a storage failure only loses the lead id.
// A catalog that cannot be loaded yields the message with no products.
func (s *quizService) Recommend(ctx context.Context, sub domain.QuizSubmission) (domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when recommending")
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}

	start := time.Now()

	catalog, err := s.catalog.ActiveCatalog(ctx)
	if err != nil {
		logger.Error("Failed to load catalog for recommendation", err)
		metrics.CatalogFailures.Inc()
		catalog = nil
	}

	result := s.engine.Recommend(sub.Profile, catalog)

	reco := domain.Recommendation{
		Condition:  result.Condition.String(),
		Augmenters: result.Augmenters,
		Message:    recommendation.GetPersonalizedMessage(sub.Profile),
		Products:   result.Products,
	}
	for _, p := range result.Products {
		reco.Total += p.Price
	}

	metrics.RecommendDuration.Observe(time.Since(start).Seconds())
	metrics.RecommendTotal.WithLabelValues(reco.Condition).Inc()

	if sub.Contact != nil && sub.Contact.Email != "" && s.leads != nil {
		reco.LeadID = s.storeLead(ctx, sub, reco)
	}

	logger.Info("recommendation served",
		"condition", reco.Condition,
		"products", len(reco.Products),
		"lead_id", reco.LeadID,
	)

	return reco, nil
}

func (s *quizService) storeLead(ctx context.Context, sub domain.QuizSubmission, reco domain.Recommendation) string {
	lead := &domain.Lead{
		FullName:    sub.Contact.FullName,
		Email:       sub.Contact.Email,
		Phone:       sub.Contact.Phone,
		Consent:     sub.Contact.Consent,
		SkinType:    sub.Profile.SkinType,
		Age:         sub.Profile.Age,
		Concerns:    sub.Profile.Concerns,
		ProductType: sub.Profile.ProductType,
		Condition:   reco.Condition,
		Message:     reco.Message,
		Source:      sourceQuiz,
	}
	if sub.Scores != nil {
		if err := lead.SetSkinScores(*sub.Scores); err != nil {
			logger.Warn("Failed to encode skin scores", err)
		}
	}

	ids := make([]uint64, 0, len(reco.Products))
	for _, p := range reco.Products {
		ids = append(ids, p.ID)
	}

	created, err := s.leads.CreateLead(ctx, lead, ids)
	if err != nil {
		logger.Error("Failed to store quiz lead", err)
		metrics.LeadPersistFailures.Inc()
		return ""
	}

	return created.ID
}
