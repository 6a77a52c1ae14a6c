package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 1明細あたりの数量上限
const MaxCartQuantity = 99

// カートの明細
// PriceAtAdditionは初回追加時点の価格で、以後は再計算しない。
// Productは表示用の参照で、商品が削除されるとnilになる。
type CartItem struct {
	ID              string          `gorm:"type:uuid;primaryKey" json:"id"`
	CartID          string          `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product" json:"cartId"`
	ProductID       string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_cart_items_cart_product" json:"productId"`
	Product         *Product        `gorm:"foreignKey:ProductID;references:ID" json:"product,omitempty"`
	Quantity        int             `gorm:"not null;default:1" json:"quantity"`
	PriceAtAddition decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"priceAtAddition"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
