package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	"storefront/internal/infra/logger"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/infra/repository/memory"
	"storefront/internal/infra/token"
	repo "storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/usecase"
	auth "storefront/internal/usecase/auth_usecase"

	"go.uber.org/zap"
)

// 保存先ごとのリポジトリ一式
type repos struct {
	users     repo.UserRepository
	products  repo.ProductRepository
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	orders    repo.OrderRepository
	audit     repo.AuditLogRepository
	tx        repo.TransactionManager
}

func openRepos(cfg config.Config, log *zap.Logger) (repos, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		carts := memory.NewCartRepository(store)
		return repos{
			users:     memory.NewUserRepository(store),
			products:  memory.NewProductRepository(store),
			carts:     carts,
			cartItems: carts,
			orders:    memory.NewOrderRepository(store),
			audit:     memory.NewAuditLogRepository(store),
			tx:        memory.NewTxManager(store),
		}, nil
	}

	//DB接続
	gormDB, err := db.Connect(cfg.DSN(), !cfg.IsProduction())
	if err != nil {
		return repos{}, err
	}
	if err := db.Migrate(gormDB); err != nil {
		return repos{}, err
	}

	//Repository（GORM実装）生成
	carts := infraRepo.NewCartGormRepository(gormDB)
	return repos{
		users:     infraRepo.NewUserGormRepository(gormDB),
		products:  infraRepo.NewProductGormRepository(gormDB),
		carts:     carts,
		cartItems: carts,
		orders:    infraRepo.NewOrderGormRepository(gormDB),
		audit:     infraRepo.NewAuditLogGormRepository(gormDB),
		tx:        infraRepo.NewTxManagerGorm(gormDB),
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.GoEnv)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	r, err := openRepos(cfg, log)
	if err != nil {
		log.Fatal("storage init failed", zap.Error(err))
	}

	tokens, err := token.NewService(cfg.JWTSecret, cfg.JWTExpiration, nil)
	if err != nil {
		log.Fatal("token service init failed", zap.Error(err))
	}

	//usecaseに渡す部品
	idGen := auth.UUIDGenerator{}
	clock := auth.SystemClock{}
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()

	//Usecase生成
	productUC := usecase.NewProductUsecase(r.products, r.audit, log)
	cartUC := usecase.NewCartUsecase(r.tx, r.carts, r.cartItems, log)
	orderUC := usecase.NewOrderUsecase(r.tx, r.orders, log)
	registerUC := auth.NewRegisterUserUsecase(r.users, hasher, tokens, idGen, clock, log)
	loginUC := auth.NewLoginUsecase(r.users, verifier, tokens, clock, log)
	meUC := auth.NewMeUsecase(r.users)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedCatalog {
		n, err := productUC.SeedCatalog(ctx)
		if err != nil {
			log.Fatal("seed catalog failed", zap.Error(err))
		}
		log.Info("catalog seeded", zap.Int("inserted", n))
	}

	//Handler生成
	h := server.Handlers{
		Auth:         handler.NewAuthHandler(registerUC, loginUC, meUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC, log),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(orderUC),
	}

	//Server起動
	if err := server.New(cfg, tokens, h, log).Start(ctx); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
}
