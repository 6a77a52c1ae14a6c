package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細
// ProductNameとPriceAtPurchaseは注文時のスナップショット（会計用、常に値がある）。
// Productは表示用のライブ参照で、商品削除後はnil。
// Positionはカートでの並び順（0始まり）。
type OrderItem struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID         string          `gorm:"type:uuid;not null;index" json:"orderId"`
	Position        int             `gorm:"not null;default:0" json:"position"`
	ProductID       string          `gorm:"type:varchar(50);not null;index" json:"productId"`
	Product         *Product        `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
	ProductName     string          `gorm:"type:varchar(255);not null" json:"productName"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"priceAtPurchase"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
}
