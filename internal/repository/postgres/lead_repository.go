package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lorenzotett/alma-skin-guru-sub000/domain"

	"gorm.io/gorm"
)

type LeadRepository struct {
	DB *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{
		DB: db,
	}
}

// Create stores the lead and its recommended products atomically.
func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	products := lead.Products
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Products").Create(lead).Error; err != nil {
			return fmt.Errorf("failed to create lead: %w", err)
		}

		if len(products) == 0 {
			return nil
		}
		for i := range products {
			products[i].LeadID = lead.ID
		}
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to create lead products: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	lead.Products = products
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (domain.Lead, error) {
	if err := ctx.Err(); err != nil {
		return domain.Lead{}, fmt.Errorf("context error: %w", err)
	}

	var lead domain.Lead
	err := r.DB.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&lead, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Lead{}, errors.New("lead not found")
		}
		return domain.Lead{}, fmt.Errorf("failed to find lead: %w", err)
	}

	return lead, nil
}

func (r *LeadRepository) FindAll(ctx context.Context, filter domain.LeadFilter) ([]domain.Lead, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.Lead{})
	if filter.SkinType != "" {
		query = query.Where("skin_type = ?", filter.SkinType)
	}
	if filter.Email != "" {
		query = query.Where("email ILIKE ?", "%"+filter.Email+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	var leads []domain.Lead
	err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&leads).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find leads: %w", err)
	}

	return leads, total, nil
}

// Analytics aggregates the leads created at or after since.
func (r *LeadRepository) Analytics(ctx context.Context, since time.Time, limit int) (domain.LeadAnalytics, error) {
	if err := ctx.Err(); err != nil {
		return domain.LeadAnalytics{}, fmt.Errorf("context error: %w", err)
	}

	db := r.DB.WithContext(ctx)
	leads := func() *gorm.DB {
		return db.Model(&domain.Lead{}).Where("created_at >= ?", since)
	}
	var out domain.LeadAnalytics

	if err := leads().Count(&out.TotalLeads).Error; err != nil {
		return out, fmt.Errorf("failed to count leads: %w", err)
	}

	if err := leads().Where("consent = ?", true).Count(&out.ConsentedLeads).Error; err != nil {
		return out, fmt.Errorf("failed to count consented leads: %w", err)
	}

	err := leads().
		Select("skin_type AS key, COUNT(*) AS count").
		Where("skin_type <> ''").
		Group("skin_type").
		Order("count DESC").
		Scan(&out.BySkinType).Error
	if err != nil {
		return out, fmt.Errorf("failed to group leads by skin type: %w", err)
	}

	err = leads().
		Select("condition AS key, COUNT(*) AS count").
		Where("condition <> ''").
		Group("condition").
		Order("count DESC").
		Scan(&out.ByCondition).Error
	if err != nil {
		return out, fmt.Errorf("failed to group leads by condition: %w", err)
	}

	err = db.Raw(`
		SELECT c.value AS key, COUNT(*) AS count
		FROM leads, jsonb_array_elements_text(leads.concerns) AS c(value)
		WHERE leads.created_at >= ?
		GROUP BY c.value
		ORDER BY count DESC
		LIMIT ?`, since, limit).
		Scan(&out.TopConcerns).Error
	if err != nil {
		return out, fmt.Errorf("failed to count concerns: %w", err)
	}

	err = db.Table("lead_products AS lp").
		Select("lp.product_id AS product_id, p.name AS name, COUNT(*) AS count").
		Joins("JOIN products p ON p.id = lp.product_id").
		Joins("JOIN leads l ON l.id = lp.lead_id").
		Where("l.created_at >= ?", since).
		Group("lp.product_id, p.name").
		Order("count DESC").
		Limit(limit).
		Scan(&out.TopProducts).Error
	if err != nil {
		return out, fmt.Errorf("failed to count recommended products: %w", err)
	}

	err = leads().
		Select("TO_CHAR(DATE_TRUNC('day', created_at), 'YYYY-MM-DD') AS day, COUNT(*) AS count").
		Group("day").
		Order("day ASC").
		Scan(&out.Daily).Error
	if err != nil {
		return out, fmt.Errorf("failed to count daily leads: %w", err)
	}

	return out, nil
}
