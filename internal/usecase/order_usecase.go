package usecase

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/infra/metrics"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderUsecase struct {
	tx     repo.TransactionManager
	orders repo.OrderRepository
	logger *zap.Logger
}

func NewOrderUsecase(tx repo.TransactionManager, orders repo.OrderRepository, logger *zap.Logger) *OrderUsecase {
	return &OrderUsecase{tx: tx, orders: orders, logger: logger}
}

// productNameとpriceAtPurchaseは注文時のスナップショット。productは表示用の現在値
type OrderItemOutput struct {
	ID              string         `json:"id"`
	ProductID       string         `json:"productId"`
	ProductName     string         `json:"productName"`
	Quantity        int            `json:"quantity"`
	PriceAtPurchase float64        `json:"priceAtPurchase"`
	Product         *ProductOutput `json:"product"`
}

type OrderOutput struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	Status      string            `json:"status"`
	TotalAmount float64           `json:"totalAmount"`
	Items       []OrderItemOutput `json:"items"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// CreateOrderFromCart はカートの中身から注文を作る。
// カートのロック → スナップショット → 注文保存 → カートを空に、を1つのTxで行う。
// 途中で失敗したらカートは元のまま。
func (u *OrderUsecase) CreateOrderFromCart(ctx context.Context, userID string) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, ErrUnauthorized
	}

	var orderID string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().LockByUserID(ctx, userID)
		if err != nil {
			return err
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero

		for _, ci := range cartItems {
			// 商品が削除された行は飛ばす（注文全体は失敗させない）
			if ci.Product == nil {
				u.logger.Warn("skipping cart line with deleted product",
					zap.String("user_id", userID),
					zap.String("cart_item_id", ci.ID),
					zap.String("product_id", ci.ProductID))
				metrics.StaleCartLinesSkipped.Inc()
				continue
			}

			// 価格はカートに入れた時のもの（現在の商品価格は見ない）
			price := ci.PriceAtAddition
			if price.IsNegative() {
				u.logger.Error("cart line has invalid price",
					zap.String("cart_item_id", ci.ID),
					zap.String("price", price.String()))
				return ErrInvalidPrice
			}
			if ci.Quantity < 1 || ci.Quantity > model.MaxCartQuantity {
				u.logger.Error("cart line has invalid quantity",
					zap.String("cart_item_id", ci.ID),
					zap.Int("quantity", ci.Quantity))
				return ErrInvalidQty
			}

			orderItems = append(orderItems, model.OrderItem{
				Position:        len(orderItems),
				ProductID:       ci.ProductID,
				ProductName:     ci.Product.Name,
				Quantity:        ci.Quantity,
				PriceAtPurchase: model.RoundMoney(price),
			})
			total = total.Add(model.LineTotal(price, ci.Quantity))
		}

		if len(orderItems) == 0 {
			return ErrNoValidItems
		}
		if model.RoundMoney(total).GreaterThan(model.MaxAmount) {
			return ErrOrderTooLarge
		}

		order := &model.Order{
			UserID:      userID,
			Items:       orderItems,
			TotalAmount: model.RoundMoney(total),
			Status:      model.OrderStatusCompleted,
		}
		if err := r.Orders().Create(ctx, order); err != nil {
			return err
		}

		// 注文が保存できてから空にする
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return err
		}

		orderID = order.ID
		metrics.OrderAmountTotal.Add(model.MoneyToFloat(order.TotalAmount))
		return nil
	})
	if err != nil {
		if he, ok := AsHTTPError(err); ok {
			metrics.OrdersFailedTotal.WithLabelValues(failureReason(he)).Inc()
			return OrderOutput{}, err
		}
		metrics.OrdersFailedTotal.WithLabelValues("storage").Inc()
		u.logger.Error("create order failed", zap.String("user_id", userID), zap.Error(err))
		return OrderOutput{}, ErrInternal
	}

	metrics.OrdersCreatedTotal.Inc()
	u.logger.Info("order created", zap.String("order_id", orderID), zap.String("user_id", userID))

	// 保存された内容をそのまま返す
	return u.GetMyOrder(ctx, userID, orderID)
}

// 新しい順
func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID string) ([]OrderOutput, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	orders, err := u.orders.ListByUserID(ctx, userID)
	if err != nil {
		u.logger.Error("list orders failed", zap.String("user_id", userID), zap.Error(err))
		return nil, ErrInternal
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs, nil
}

// 他人の注文は「存在しない扱い」にする
func (u *OrderUsecase) GetMyOrder(ctx context.Context, userID string, orderID string) (OrderOutput, error) {
	if userID == "" {
		return OrderOutput{}, ErrUnauthorized
	}
	if orderID == "" {
		return OrderOutput{}, ErrInvalidID
	}

	o, err := u.orders.FindByIDForUser(ctx, orderID, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, ErrOrderNotFound
	}
	if err != nil {
		u.logger.Error("get order failed", zap.String("order_id", orderID), zap.Error(err))
		return OrderOutput{}, ErrInternal
	}
	return toOrderOutput(o), nil
}

func failureReason(he *HTTPError) string {
	switch {
	case errors.Is(he, ErrCartEmpty):
		return "cart_empty"
	case errors.Is(he, ErrNoValidItems):
		return "no_valid_items"
	case errors.Is(he, ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(he, ErrInvalidQty):
		return "invalid_quantity"
	case errors.Is(he, ErrOrderTooLarge):
		return "too_large"
	default:
		return "other"
	}
}

func toOrderOutput(o model.Order) OrderOutput {
	items := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		line := OrderItemOutput{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			PriceAtPurchase: model.MoneyToFloat(it.PriceAtPurchase),
		}
		if it.Product != nil {
			p := ToProductOutput(*it.Product)
			line.Product = &p
		}
		items = append(items, line)
	}

	return OrderOutput{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalAmount: model.MoneyToFloat(o.TotalAmount),
		Items:       items,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
