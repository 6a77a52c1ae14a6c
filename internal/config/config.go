package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // development/production

	StorageDriver string // postgres / memory
	DatabaseURL   string // あればPOSTGRES_*より優先

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	JWTSecret     string        // JWT署名シークレット（必須）
	JWTExpiration time.Duration // アクセストークンの有効期限

	BcryptCost  int
	FEURL       string // CORSで許可するフロントURL
	SeedCatalog bool   // 起動時に初期商品を入れる
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// Loadは.env（あれば）と環境変数から設定を読む
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnvはgetenvから設定を組み立てる（テストでenvを差し替えられるように分けている）
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	pgPort, err := strconv.Atoi(get("POSTGRES_PORT", "5432"))
	if err != nil {
		return Config{}, fmt.Errorf("POSTGRES_PORT must be number: %w", err)
	}

	ttl, err := time.ParseDuration(get("JWT_EXPIRATION", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("JWT_EXPIRATION must be duration: %w", err)
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("JWT_EXPIRATION must be positive")
	}

	cost, err := strconv.Atoi(get("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost)))
	if err != nil {
		return Config{}, fmt.Errorf("BCRYPT_COST must be number: %w", err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	seed, err := strconv.ParseBool(get("SEED_CATALOG", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("SEED_CATALOG must be bool: %w", err)
	}

	cfg := Config{
		Port:  strings.TrimPrefix(get("PORT", "8080"), ":"),
		GoEnv: get("GO_ENV", "development"),

		StorageDriver: strings.ToLower(get("STORAGE_DRIVER", StorageDriverPostgres)),
		DatabaseURL:   get("DATABASE_URL", ""),

		PostgresUser:     get("POSTGRES_USER", "postgres"),
		PostgresPassword: get("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       get("POSTGRES_DB", "storefront"),
		PostgresHost:     get("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  get("POSTGRES_SSLMODE", "disable"),

		JWTSecret:     getenv("JWT_SECRET"),
		JWTExpiration: ttl,

		BcryptCost:  cost,
		FEURL:       get("FE_URL", "http://localhost:3000"),
		SeedCatalog: seed,
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StorageDriver != StorageDriverPostgres && cfg.StorageDriver != StorageDriverMemory {
		return Config{}, fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverMemory)
	}

	return cfg, nil
}

// DSNはgorm/postgres用の接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}
