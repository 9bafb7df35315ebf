package lead

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/logger"
	"github.com/lorenzotett/alma-skin-guru-sub000/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// LeadRepository contract interface
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) error
	FindByID(ctx context.Context, id string) (domain.Lead, error)
	FindAll(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, int64, error)
	Analytics(ctx context.Context, since time.Time, limit int) (domain.LeadAnalytics, error)
}

// ProductRepository contract interface
type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
}

// NotificationRepository contract interface
type NotificationRepository interface {
	SendEmail(ctx context.Context, toName, toEmail, subject, message string) error
}

// SummaryEnqueuer schedules the lead summary email outside the request.
type SummaryEnqueuer interface {
	EnqueueLeadSummary(ctx context.Context, leadID string) error
}

const (
	defaultPageSize  = 20
	maxPageSize      = 100
	defaultDays      = 30
	maxDays          = 365
	analyticsTopSize = 10

	SourceQuiz  = "quiz"
	SourceLeads = "form"

	SubjectLeadSummary = "La tua routine Alma Skin Guru"
)

type leadService struct {
	leadRepo    LeadRepository
	productRepo ProductRepository
	notifRepo   NotificationRepository
	enqueuer    SummaryEnqueuer
	validate    *validator.Validate
	now         func() time.Time
}

// NewLeadService wires the lead flow. A nil enqueuer sends the summary
// email inline.
func NewLeadService(
	leadRepo LeadRepository,
	productRepo ProductRepository,
	notifRepo NotificationRepository,
	enqueuer SummaryEnqueuer,
	validate *validator.Validate,
) *leadService {
	return &leadService{
		leadRepo:    leadRepo,
		productRepo: productRepo,
		notifRepo:   notifRepo,
		enqueuer:    enqueuer,
		validate:    validate,
		now:         time.Now,
	}
}

// CreateLead stores the contact, its quiz answers and the recommended
// products in the given order.
func (s *leadService) CreateLead(ctx context.Context, lead *domain.Lead, productIDs []uint64) (domain.Lead, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when creating lead")
		return domain.Lead{}, fmt.Errorf("context error: %w", err)
	}

	lead.Email = strings.TrimSpace(strings.ToLower(lead.Email))
	if err := s.validate.Var(lead.Email, "required,email"); err != nil {
		logger.Error("Invalid lead email", err)
		return domain.Lead{}, errors.New("invalid email format")
	}

	if lead.Source == "" {
		lead.Source = SourceLeads
	}
	lead.ID = uuid.NewString()
	lead.Products = leadProducts(productIDs)

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		logger.Error("Failed to create lead", err)
		return domain.Lead{}, err
	}
	metrics.LeadsCreated.WithLabelValues(lead.Source).Inc()
	logger.Info("lead created", "lead_id", lead.ID, "source", lead.Source, "products", len(productIDs))

	if lead.Consent {
		s.scheduleSummary(ctx, lead.ID)
	}

	return *lead, nil
}

func (s *leadService) scheduleSummary(ctx context.Context, leadID string) {
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueLeadSummary(ctx, leadID); err != nil {
			logger.Warn("Failed to enqueue lead summary", err, "lead_id", leadID)
		}
		return
	}

	if err := s.SendLeadSummary(ctx, leadID); err != nil {
		logger.Warn("Failed to send lead summary", err, "lead_id", leadID)
	}
}

// leadProducts keeps the first position of every product id.
func leadProducts(ids []uint64) []domain.LeadProduct {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]domain.LeadProduct, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, domain.LeadProduct{ProductID: id, Position: len(out)})
	}
	return out
}

func (s *leadService) GetLead(ctx context.Context, id string) (domain.Lead, error) {
	if err := ctx.Err(); err != nil {
		return domain.Lead{}, fmt.Errorf("context error: %w", err)
	}

	if _, err := uuid.Parse(id); err != nil {
		logger.Error("Invalid lead id", err)
		return domain.Lead{}, errors.New("invalid lead id")
	}

	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to find lead", err)
		return domain.Lead{}, err
	}

	return lead, nil
}

func (s *leadService) ListLeads(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	leads, total, err := s.leadRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to list leads", err)
		return nil, 0, err
	}

	return leads, total, nil
}

// Analytics aggregates the funnel over the last days, today included.
func (s *leadService) Analytics(ctx context.Context, days int) (domain.LeadAnalytics, error) {
	if err := ctx.Err(); err != nil {
		return domain.LeadAnalytics{}, fmt.Errorf("context error: %w", err)
	}

	if days <= 0 {
		days = defaultDays
	}
	if days > maxDays {
		days = maxDays
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -(days - 1))

	analytics, err := s.leadRepo.Analytics(ctx, since, analyticsTopSize)
	if err != nil {
		logger.Error("Failed to compute lead analytics", err)
		return domain.LeadAnalytics{}, err
	}

	return analytics, nil
}

// SendLeadSummary emails the recommended routine to a consenting lead.
func (s *leadService) SendLeadSummary(ctx context.Context, leadID string) error {
	lead, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil {
		return err
	}

	if !lead.Consent || lead.Email == "" {
		logger.Info("lead summary skipped", "lead_id", leadID)
		return nil
	}

	ids := lead.ProductIDs()
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load lead products: %w", err)
	}

	body := composeSummary(lead, orderByIDs(products, ids))
	if err := s.notifRepo.SendEmail(ctx, lead.FullName, lead.Email, SubjectLeadSummary, body); err != nil {
		metrics.EmailsSent.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to send lead summary: %w", err)
	}
	metrics.EmailsSent.WithLabelValues("sent").Inc()

	logger.Info("lead summary sent", "lead_id", leadID)
	return nil
}

func orderByIDs(products []domain.Product, ids []uint64) []domain.Product {
	byID := make(map[uint64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
