package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ProductUsecase struct {
	productRepo repo.ProductRepository
	auditRepo   repo.AuditLogRepository
	logger      *zap.Logger
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, auditRepo repo.AuditLogRepository, logger *zap.Logger) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo, auditRepo: auditRepo, logger: logger}
}

// 商品のレスポンス。priceは数値で返す
type ProductOutput struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	AmdChip   *string   `json:"amdChip,omitempty"`
	Price     float64   `json:"price"`
	Specs     []string  `json:"specs"`
	ImageURL  *string   `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToProductOutput(p model.Product) ProductOutput {
	specs := []string(p.Specs)
	if specs == nil {
		specs = []string{}
	}
	return ProductOutput{
		ID:        p.ID,
		Name:      p.Name,
		Type:      string(p.Type),
		AmdChip:   p.AmdChip,
		Price:     model.MoneyToFloat(p.Price),
		Specs:     specs,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// GET /productsの入力
type ListProductsInput struct {
	Type string
	Sort string
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) ([]ProductOutput, error) {
	q := repo.ProductListQuery{Sort: in.Sort}

	if t := strings.ToUpper(strings.TrimSpace(in.Type)); t != "" {
		pt := model.ProductType(t)
		if !pt.Valid() {
			return nil, validationError("type must be CPU or GPU")
		}
		q.Type = pt
	}
	switch in.Sort {
	case "", "price_asc", "price_desc":
	default:
		return nil, validationError("invalid sort")
	}

	items, err := u.productRepo.List(ctx, q)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]ProductOutput, 0, len(items))
	for _, p := range items {
		out = append(out, ToProductOutput(p))
	}
	return out, nil
}

func (u *ProductUsecase) GetProduct(ctx context.Context, productID string) (ProductOutput, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ProductOutput{}, ErrInvalidID
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, ErrProductNotFound
	}
	if err != nil {
		return ProductOutput{}, ErrInternal
	}

	return ToProductOutput(p), nil
}

// 管理者の商品作成
type CreateProductInput struct {
	ID       string
	Name     string
	Type     string
	AmdChip  *string
	Price    decimal.Decimal
	Specs    []string
	ImageURL *string
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actorID string, in CreateProductInput) (ProductOutput, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" || len(id) > 50 {
		return ProductOutput{}, validationError("id is required (e.g. gpu-rx7800xt)")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ProductOutput{}, validationError("name is required")
	}
	pt := model.ProductType(strings.ToUpper(strings.TrimSpace(in.Type)))
	if !pt.Valid() {
		return ProductOutput{}, validationError("type must be CPU or GPU")
	}
	if err := validatePrice(in.Price); err != nil {
		return ProductOutput{}, err
	}
	specs, err := cleanSpecs(in.Specs)
	if err != nil {
		return ProductOutput{}, err
	}
	if err := validateImageURL(in.ImageURL); err != nil {
		return ProductOutput{}, err
	}

	newProduct := model.Product{
		ID:       id,
		Name:     name,
		Type:     pt,
		AmdChip:  trimOptional(in.AmdChip),
		Price:    in.Price,
		Specs:    specs,
		ImageURL: trimOptional(in.ImageURL),
	}
	p, err := u.productRepo.Create(ctx, newProduct)
	if errors.Is(err, repo.ErrConflict) {
		// 論理削除済みのIDなら新しい内容で戻す
		p, err = u.productRepo.Restore(ctx, newProduct)
		if errors.Is(err, repo.ErrConflict) || errors.Is(err, repo.ErrNotFound) {
			return ProductOutput{}, ErrProductConflict
		}
		if err == nil {
			u.logger.Info("soft-deleted product restored", zap.String("product_id", id))
		}
	}
	if err != nil {
		return ProductOutput{}, ErrInternal
	}

	out := ToProductOutput(p)
	u.audit(ctx, actorID, model.AuditActionCreateProduct, out.ID, nil, &out)
	return out, nil
}

// PATCH。nilの項目は変更しない
type UpdateProductInput struct {
	Name     *string
	Type     *string
	AmdChip  *string
	Price    *decimal.Decimal
	Specs    []string
	ImageURL *string
}

func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actorID string, productID string, in UpdateProductInput) (ProductOutput, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ProductOutput{}, ErrInvalidID
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, ErrProductNotFound
	}
	if err != nil {
		return ProductOutput{}, ErrInternal
	}
	before := ToProductOutput(p)

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return ProductOutput{}, validationError("name is required")
		}
		p.Name = name
	}
	if in.Type != nil {
		pt := model.ProductType(strings.ToUpper(strings.TrimSpace(*in.Type)))
		if !pt.Valid() {
			return ProductOutput{}, validationError("type must be CPU or GPU")
		}
		p.Type = pt
	}
	if in.AmdChip != nil {
		p.AmdChip = trimOptional(in.AmdChip)
	}
	if in.Price != nil {
		if err := validatePrice(*in.Price); err != nil {
			return ProductOutput{}, err
		}
		p.Price = *in.Price
	}
	if in.Specs != nil {
		specs, err := cleanSpecs(in.Specs)
		if err != nil {
			return ProductOutput{}, err
		}
		p.Specs = specs
	}
	if in.ImageURL != nil {
		if err := validateImageURL(in.ImageURL); err != nil {
			return ProductOutput{}, err
		}
		p.ImageURL = trimOptional(in.ImageURL)
	}

	if err := u.productRepo.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ProductOutput{}, ErrProductNotFound
		}
		return ProductOutput{}, ErrInternal
	}

	updated, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductOutput{}, ErrInternal
	}

	out := ToProductOutput(updated)
	u.audit(ctx, actorID, model.AuditActionUpdateProduct, productID, &before, &out)
	return out, nil
}

// 論理削除。カートや注文の明細からは参照切れとして見える
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actorID string, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ErrInvalidID
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return ErrInternal
	}

	err = u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrProductNotFound
	}
	if err != nil {
		return ErrInternal
	}

	before := ToProductOutput(p)
	u.audit(ctx, actorID, model.AuditActionDeleteProduct, productID, &before, nil)
	return nil
}

// 監査ログ一覧の入力
type ListAuditLogsInput struct {
	ResourceID string
	Action     string
	Limit      int
	Offset     int
}

// ListAuditLogsは商品の管理操作ログを新しい順に返す
func (u *ProductUsecase) ListAuditLogs(ctx context.Context, in ListAuditLogsInput) ([]model.AuditLog, error) {
	var filter repo.AuditLogFilter
	if id := strings.TrimSpace(in.ResourceID); id != "" {
		filter.ResourceID = &id
	}
	if a := strings.TrimSpace(in.Action); a != "" {
		action := model.AuditAction(strings.ToUpper(a))
		if !action.Valid() {
			return nil, validationError("action must be CREATE_PRODUCT, UPDATE_PRODUCT or DELETE_PRODUCT")
		}
		filter.Action = &action
	}
	filter.Limit = in.Limit
	filter.Offset = in.Offset

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		u.logger.Error("list audit logs failed", zap.Error(err))
		return nil, ErrInternal
	}
	return logs, nil
}

// 監査ログは書けなくても本処理は成功扱い（ログだけ残す）
func (u *ProductUsecase) audit(ctx context.Context, actorID string, action model.AuditAction, productID string, before, after *ProductOutput) {
	entry := model.AuditLog{
		ActorUserID:  actorID,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   productID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
	}
	if err := u.auditRepo.Create(ctx, &entry); err != nil {
		u.logger.Error("write audit log failed",
			zap.String("action", string(action)),
			zap.String("productId", productID),
			zap.String("actorId", actorID),
			zap.Error(err),
		)
	}
}

func toJSON(p *ProductOutput) string {
	if p == nil {
		return ""
	}
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}

// SeedCatalogは初期商品のうち未登録のものだけを入れる。入れた件数を返す
func (u *ProductUsecase) SeedCatalog(ctx context.Context) (int, error) {
	created := 0
	for _, p := range DefaultCatalog() {
		_, err := u.productRepo.Create(ctx, p)
		if errors.Is(err, repo.ErrConflict) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	u.logger.Info("catalog seeded", zap.Int("created", created))
	return created, nil
}

func validatePrice(p decimal.Decimal) error {
	if !model.ValidCatalogPrice(p) {
		return validationError("price must be at least 0.01 with up to 2 decimals")
	}
	return nil
}

func cleanSpecs(in []string) (pq.StringArray, error) {
	out := make(pq.StringArray, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, validationError("specs must not contain blank entries")
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, validationError("at least one spec is required")
	}
	return out, nil
}

func validateImageURL(s *string) error {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	parsed, err := url.ParseRequestURI(strings.TrimSpace(*s))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return validationError("imageUrl must be a valid URL")
	}
	return nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
