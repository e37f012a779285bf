package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	ServerPort int
	LogLevel   string

	DatabaseURL  string
	SQLitePath   string
	StorageFile  string
	SettingsFile string

	SessionSecret []byte
	SessionTTL    time.Duration
	CSRFEnabled   bool

	AdminUsername string
	AdminPassword string

	Shipping ShippingEnv

	TelegramBotToken string
	TelegramChatID   string

	KafkaBrokers    []string
	KafkaOrderTopic string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	UploadsDir   string
	SeedDemoData bool
}

// ShippingEnv holds carrier settings coming from the environment. Non-empty
// values take precedence over whatever an admin stored.
type ShippingEnv struct {
	APIURL         string
	APIID          string
	APIToken       string
	FromWilayaName string
	DefaultCommune string
	HTTPTimeout    time.Duration
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	return Config{
		AppEnv:     EnvDefault("APP_ENV", "development"),
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		SQLitePath:   os.Getenv("SQLITE_PATH"),
		StorageFile:  EnvDefault("STORAGE_FILE", "data/storefront.json"),
		SettingsFile: os.Getenv("SETTINGS_FILE"),

		SessionSecret: []byte(os.Getenv("SESSION_SECRET")),
		SessionTTL:    EnvDurationDefault("SESSION_TTL", 7*24*time.Hour),
		CSRFEnabled:   EnvBoolDefault("CSRF_ENABLED", false),

		AdminUsername: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Shipping: ShippingEnv{
			APIURL:         strings.TrimSpace(os.Getenv("SHIPPING_API_URL")),
			APIID:          strings.TrimSpace(os.Getenv("SHIPPING_API_ID")),
			APIToken:       strings.TrimSpace(os.Getenv("SHIPPING_API_TOKEN")),
			FromWilayaName: strings.TrimSpace(os.Getenv("SHIPPING_FROM_WILAYA_NAME")),
			DefaultCommune: strings.TrimSpace(os.Getenv("SHIPPING_DEFAULT_COMMUNE")),
			HTTPTimeout:    EnvDurationDefault("SHIPPING_HTTP_TIMEOUT", 30*time.Second),
		},

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		KafkaBrokers:    CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: EnvDefault("KAFKA_ORDER_TOPIC", "order_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		UploadsDir:   EnvDefault("UPLOADS_DIR", "data/uploads"),
		SeedDemoData: EnvBoolDefault("SEED_DEMO_DATA", true),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
