package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SF_TEST_INT", "42")
	t.Setenv("SF_TEST_BAD_INT", "x")
	t.Setenv("SF_TEST_BOOL", "true")
	t.Setenv("SF_TEST_DUR", "15s")
	t.Setenv("SF_TEST_NEG_DUR", "-1s")

	assert.Equal(t, 42, EnvIntDefault("SF_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("SF_TEST_BAD_INT", 1))
	assert.True(t, EnvBoolDefault("SF_TEST_BOOL", false))
	assert.False(t, EnvBoolDefault("SF_TEST_MISSING", false))
	assert.Equal(t, 15*time.Second, EnvDurationDefault("SF_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("SF_TEST_NEG_DUR", time.Second))
	assert.Equal(t, "def", EnvDefault("SF_TEST_MISSING", "def"))
}

func TestLoad_ShippingOverrides(t *testing.T) {
	t.Setenv("SHIPPING_API_URL", " https://api.yalidine.app ")
	t.Setenv("SHIPPING_HTTP_TIMEOUT", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()
	assert.Equal(t, "https://api.yalidine.app", cfg.Shipping.APIURL)
	assert.Equal(t, 30*time.Second, cfg.Shipping.HTTPTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "order_events", cfg.KafkaOrderTopic)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	ok := Config{AppEnv: "development", ServerPort: 8080}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"development without secret", func(*Config) {}, ""},
		{"production without secret", func(c *Config) { c.AppEnv = "production" }, "SESSION_SECRET"},
		{"production with secret", func(c *Config) { c.AppEnv = "Production"; c.SessionSecret = []byte("x") }, ""},
		{"two databases", func(c *Config) { c.DatabaseURL = "postgres://x"; c.SQLitePath = "x.db" }, "mutually exclusive"},
		{"bad port", func(c *Config) { c.ServerPort = 70000 }, "SERVER_PORT"},
		{"telegram without chat", func(c *Config) { c.TelegramBotToken = "t" }, "TELEGRAM_CHAT_ID"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := ok
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
