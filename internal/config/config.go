package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	LLM         LLMConfig
	Archive     ArchiveConfig
	MQTT        MQTTConfig
}

type LLMConfig struct {
	Model   string
	Timeout time.Duration
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MQTTConfig struct {
	Broker   string
	ClientID string
	Topic    string
	QoS      byte
}

// Load reads configuration from a .env file (if present) and the
// environment. Only PORT-style basics have defaults; optional integrations
// (database, archive, MQTT) stay disabled until configured.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	cfg := &Config{
		Port:        port,
		Env:         env,
		DatabaseURL: databaseURL(),
		LLM:         loadLLMConfig(),
		Archive:     loadArchiveConfig(),
		MQTT:        loadMQTTConfig(),
	}
	return cfg, nil
}

// databaseURL prefers DATABASE_URL and falls back to the POSTGRES_* pieces
// the original deployment used. Empty means run on in-memory stores.
func databaseURL() string {
	if dsn := strings.TrimSpace(os.Getenv("DATABASE_URL")); dsn != "" {
		return dsn
	}
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	password := strings.TrimSpace(os.Getenv("POSTGRES_PASSWORD"))
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	if user == "" || password == "" || db == "" {
		return ""
	}
	host := firstNonEmpty(strings.TrimSpace(os.Getenv("POSTGRES_HOST")), "localhost")
	port := firstNonEmpty(strings.TrimSpace(os.Getenv("POSTGRES_PORT")), "5432")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, password, host, port, db)
}

func loadLLMConfig() LLMConfig {
	model := firstNonEmpty(strings.TrimSpace(os.Getenv("LLM_MODEL")), "gemini-2.0-flash")
	timeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("LLM_TIMEOUT_SECONDS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	return LLMConfig{Model: model, Timeout: timeout}
}

func loadArchiveConfig() ArchiveConfig {
	endpoint := strings.TrimSpace(os.Getenv("ARCHIVE_S3_ENDPOINT"))
	return ArchiveConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARCHIVE_S3_BUCKET")), "ecodrive-audit"),
		UseSSL:    parseBool(os.Getenv("ARCHIVE_S3_USE_SSL"), false),
	}
}

func loadMQTTConfig() MQTTConfig {
	qos := byte(1)
	if raw := strings.TrimSpace(os.Getenv("MQTT_QOS")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 && n <= 2 {
			qos = byte(n)
		}
	}
	return MQTTConfig{
		Broker:   strings.TrimSpace(os.Getenv("MQTT_BROKER")),
		ClientID: firstNonEmpty(strings.TrimSpace(os.Getenv("MQTT_CLIENT_ID")), "ecodrive-api"),
		Topic:    firstNonEmpty(strings.TrimSpace(os.Getenv("MQTT_TOPIC")), "vehicles/+/telemetry"),
		QoS:      qos,
	}
}

func parseBool(raw string, def bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return b
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
