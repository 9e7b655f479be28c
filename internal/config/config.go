package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ReplyModeFireForget   = "fireforget"
	ReplyModeRequestReply = "requestreply"
)

type Config struct {
	AppEnv            string
	Addr              string
	DbDsn             string
	JwtSecret         string
	JwtAccessMinutes  int
	KafkaBrokersRaw   string
	KafkaGroupID      string
	KafkaReplyMode    string
	KafkaReplySeconds int
	AllowedOriginsRaw string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppEnv:            getEnv("APP_ENV", "local"),
		Addr:              getEnv("APP_ADDR", ":8080"),
		DbDsn:             os.Getenv("DB_DSN"),
		JwtSecret:         os.Getenv("JWT_SECRET"),
		JwtAccessMinutes:  getEnvInt("JWT_ACCESS_MINUTES", 15),
		KafkaBrokersRaw:   os.Getenv("KAFKA_BROKERS"),
		KafkaGroupID:      getEnv("KAFKA_GROUP_ID", "employee-group"),
		KafkaReplyMode:    getEnv("KAFKA_REPLY_MODE", ReplyModeRequestReply),
		KafkaReplySeconds: getEnvInt("KAFKA_REPLY_TIMEOUT_SECONDS", 10),
		AllowedOriginsRaw: getEnv("ALLOWED_ORIGINS", ""),
	}

	missing := []string{}
	if cfg.DbDsn == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.JwtSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.KafkaBrokersRaw == "" {
		missing = append(missing, "KAFKA_BROKERS")
	}

	if len(missing) > 0 {
		return cfg, errors.New("missing env: " + strings.Join(missing, ", "))
	}

	if cfg.KafkaReplyMode != ReplyModeFireForget && cfg.KafkaReplyMode != ReplyModeRequestReply {
		return cfg, errors.New("KAFKA_REPLY_MODE must be " + ReplyModeFireForget + " or " + ReplyModeRequestReply)
	}

	return cfg, nil
}

func (c Config) KafkaBrokers() []string {
	brokers := []string{}
	for _, broker := range strings.Split(c.KafkaBrokersRaw, ",") {
		broker = strings.TrimSpace(broker)
		if broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
