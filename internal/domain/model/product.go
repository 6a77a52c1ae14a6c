package model

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductType string

const (
	ProductTypeCPU ProductType = "CPU"
	ProductTypeGPU ProductType = "GPU"
)

func (t ProductType) Valid() bool {
	return t == ProductTypeCPU || t == ProductTypeGPU
}

// 商品。IDは "gpu-rx7800xt" のような固定キー。
// 削除は論理削除なので、カート/注文からの参照はPreloadで空になる。
type Product struct {
	ID        string          `gorm:"type:varchar(50);primaryKey" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Type      ProductType     `gorm:"type:varchar(10);not null;index" json:"type"`
	AmdChip   *string         `gorm:"type:varchar(100)" json:"amdChip,omitempty"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Specs     pq.StringArray  `gorm:"type:text[];not null" json:"specs"`
	ImageURL  *string         `gorm:"type:text" json:"imageUrl,omitempty"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}
