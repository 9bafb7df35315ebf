package domain

import (
	"encoding/json"
	"sort"
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.leads (
//     id            UUID PRIMARY KEY,
//     full_name     TEXT,
//     email         TEXT,
//     phone         TEXT,
//     consent       BOOLEAN DEFAULT FALSE,
//     skin_type     TEXT,
//     age           INT,
//     concerns      JSONB,
//     product_type  TEXT,
//     condition     TEXT,
//     skin_scores   JSONB,
//     message       TEXT,
//     source        TEXT,
//     created_at    TIMESTAMPTZ DEFAULT NOW()
// );

type Lead struct {
	ID          string                      `gorm:"primaryKey;type:uuid" json:"id"`
	FullName    string                      `gorm:"column:full_name;type:text" json:"full_name"`
	Email       string                      `gorm:"column:email;type:text;index" json:"email"`
	Phone       string                      `gorm:"column:phone;type:text" json:"phone"`
	Consent     bool                        `gorm:"column:consent;default:false" json:"consent"`
	SkinType    string                      `gorm:"column:skin_type;type:text;index" json:"skin_type"`
	Age         int                         `gorm:"column:age" json:"age"`
	Concerns    datatypes.JSONSlice[string] `gorm:"column:concerns;type:jsonb" json:"concerns"`
	ProductType string                      `gorm:"column:product_type;type:text" json:"product_type"`
	Condition   string                      `gorm:"column:condition;type:text" json:"condition"`
	SkinScores  datatypes.JSON              `gorm:"column:skin_scores;type:jsonb" json:"skin_scores,omitempty"`
	Message     string                      `gorm:"column:message;type:text" json:"message"`
	Source      string                      `gorm:"column:source;type:text" json:"source"`
	CreatedAt   time.Time                   `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`

	Products []LeadProduct `gorm:"foreignKey:LeadID" json:"products,omitempty"`
}

func (Lead) TableName() string {
	return "leads"
}

// LeadProduct links a lead to one recommended product, keeping its position.
type LeadProduct struct {
	LeadID    string `gorm:"column:lead_id;primaryKey;type:uuid" json:"lead_id"`
	ProductID uint64 `gorm:"column:product_id;primaryKey" json:"product_id"`
	Position  int    `gorm:"column:position" json:"position"`
}

func (LeadProduct) TableName() string {
	return "lead_products"
}

type LeadFilter struct {
	Page     int
	PageSize int
	SkinType string
	Email    string
}

type CountItem struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type ProductCount struct {
	ProductID uint64 `json:"product_id"`
	Name      string `json:"name"`
	Count     int64  `json:"count"`
}

type LeadAnalytics struct {
	TotalLeads     int64          `json:"total_leads"`
	ConsentedLeads int64          `json:"consented_leads"`
	BySkinType     []CountItem    `json:"by_skin_type"`
	ByCondition    []CountItem    `json:"by_condition"`
	TopConcerns    []CountItem    `json:"top_concerns"`
	TopProducts    []ProductCount `json:"top_products"`
	Daily          []DailyCount   `json:"daily"`
}

// SetSkinScores stores the photo analysis scores on the lead.
func (l *Lead) SetSkinScores(scores SkinScores) error {
	raw, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	l.SkinScores = datatypes.JSON(raw)
	return nil
}

// ProductIDs returns the recommended product ids in position order.
func (l Lead) ProductIDs() []uint64 {
	products := make([]LeadProduct, len(l.Products))
	copy(products, l.Products)
	sort.SliceStable(products, func(i, j int) bool { return products[i].Position < products[j].Position })

	ids := make([]uint64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ProductID)
	}
	return ids
}
