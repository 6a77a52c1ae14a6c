package model

import "github.com/shopspring/decimal"

// 金額は小数2桁で扱う
const MoneyScale = 2

var minPrice = decimal.New(1, -MoneyScale)

// decimal(10,2)に入る最大額
var MaxAmount = decimal.RequireFromString("99999999.99")

// RoundMoneyは小数2桁に丸める（四捨五入）
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// MoneyToFloatはJSONで数値として返すための変換
func MoneyToFloat(d decimal.Decimal) float64 {
	return RoundMoney(d).InexactFloat64()
}

// ValidCatalogPriceは商品価格として有効か（0.01以上・小数2桁まで）
func ValidCatalogPrice(d decimal.Decimal) bool {
	if d.LessThan(minPrice) {
		return false
	}
	return d.Equal(d.Truncate(MoneyScale))
}

// LineTotalは単価×数量
func LineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
