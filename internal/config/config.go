package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	StoreDriver string // postgres / mongo / memory

	DatabaseURL      string // あれば POSTGRES_* より優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string

	MongoURI          string
	MongoDB           string
	MongoTransactions bool // レプリカセットのときだけ true にする

	JWTSecret string // JWT署名シークレット

	UploadDir       string // 画像の保存先
	GroupMaxMembers int    // 共同購入の既定人数
	CORSOrigins     []string

	AdminEmail    string // 起動時に作る管理者
	AdminPassword string
	AdminName     string

	NATSURL              string // 空ならイベントを送らない
	MetricsPort          string // 空なら /metrics を出さない
	TracingCollectorHost string // 空ならトレースしない
}

func (c Config) IsDev() bool {
	return c.GoEnv == "" || c.GoEnv == "dev"
}

// Loadは環境変数
// .env があれば先に読む
func Load() (Config, error) {
	_ = godotenv.Load()

	pgPort, err := atoiDefault("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	groupMax, err := atoiDefault("GROUP_MAX_MEMBERS", 5)
	if err != nil {
		return Config{}, err
	}
	mongoTx, err := boolDefault("MONGO_TRANSACTIONS", false)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:  getenv("PORT", "8080"),
		GoEnv: getenv("GO_ENV", "dev"),

		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", StoreDriverPostgres)),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: getenv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getenv("POSTGRES_DB", "ekathu"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),

		MongoURI:          getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getenv("MONGO_DB", "ekathu"),
		MongoTransactions: mongoTx,

		JWTSecret: os.Getenv("JWT_SECRET"),

		UploadDir:       getenv("UPLOAD_DIR", "uploads"),
		GroupMaxMembers: groupMax,
		CORSOrigins:     splitCSV(getenv("CORS_ORIGINS", "*")),

		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     getenv("ADMIN_NAME", "Admin"),

		NATSURL:              os.Getenv("NATS_URL"),
		MetricsPort:          os.Getenv("METRICS_PORT"),
		TracingCollectorHost: os.Getenv("TRACING_COLLECTOR_HOST"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres, StoreDriverMongo, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be one of postgres, mongo, memory: %q", c.StoreDriver)
	}

	//必須チェック
	if c.JWTSecret == "" {
		if !c.IsDev() {
			return fmt.Errorf("JWT_SECRET is required")
		}
		c.JWTSecret = "dev-secret"
	}
	if c.GroupMaxMembers < 1 {
		return fmt.Errorf("GROUP_MAX_MEMBERS must be >= 1")
	}
	if c.AdminEmail != "" && len(c.AdminPassword) < 8 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 8 characters when ADMIN_EMAIL is set")
	}
	return nil
}

func getenv(key string, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func boolDefault(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
