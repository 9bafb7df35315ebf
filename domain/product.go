package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.products (
//     id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name             TEXT NOT NULL,
//     category         TEXT NOT NULL,
//     step             TEXT,
//     price            NUMERIC NOT NULL DEFAULT 0,
//     concerns_treated JSONB,
//     skin_types       JSONB,
//     active           BOOLEAN DEFAULT TRUE,
//     shop_variant_id  TEXT,
//     image_url        TEXT,
//     description      TEXT,
//     created_at       TIMESTAMPTZ DEFAULT NOW(),
//     updated_at       TIMESTAMPTZ DEFAULT NOW()
// );

type Product struct {
	ID              uint64                      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string                      `gorm:"column:name;type:text;not null" json:"name"`
	Category        string                      `gorm:"column:category;type:text;not null;index" json:"category"`
	Step            string                      `gorm:"column:step;type:text" json:"step"`
	Price           float64                     `gorm:"column:price;type:numeric;default:0" json:"price"`
	ConcernsTreated datatypes.JSONSlice[string] `gorm:"column:concerns_treated;type:jsonb" json:"concerns_treated"`
	SkinTypes       datatypes.JSONSlice[string] `gorm:"column:skin_types;type:jsonb" json:"skin_types"`
	Active          bool                        `gorm:"column:active;not null" json:"active"`
	ShopVariantID   string                      `gorm:"column:shop_variant_id;type:text" json:"shop_variant_id"`
	ImageURL        string                      `gorm:"column:image_url;type:text" json:"image_url"`
	Description     string                      `gorm:"column:description;type:text" json:"description"`
	CreatedAt       time.Time                   `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time                   `gorm:"column:updated_at" json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// SuitsAllSkinTypes reports whether the product has no skin type restriction.
func (p Product) SuitsAllSkinTypes() bool {
	return len(p.SkinTypes) == 0
}
