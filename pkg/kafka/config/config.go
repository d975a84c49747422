package kafka_config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"hotelbox/pkg/logger"
)

var compressions = []string{"none", "gzip", "snappy", "lz4", "zstd"}

type Config struct {
	Brokers  []string
	ClientID string

	ProducerMaxAttempts  int
	ProducerBatchTimeout time.Duration
	ProducerRequireAcks  int    // -1 all replicas, 0 none, 1 leader
	ProducerCompression  string // one of compressions

	ConsumerStartOffset    int64 // -1 newest, -2 oldest
	ConsumerMinBytes       int
	ConsumerMaxBytes       int
	ConsumerMaxWait        time.Duration
	ConsumerCommitInterval time.Duration
	ConsumerSessionTimeout time.Duration
	ConsumerMaxRetries     int
	ConsumerRetryBackoff   time.Duration

	// DLQTopic receives messages that exhausted their retries. Empty disables it.
	DLQTopic string
}

// Load reads KAFKA_* variables. A value that is set but cannot be parsed
// is reported alongside the range checks instead of falling back silently.
func Load() (*Config, error) {
	env := &envReader{}
	cfg := &Config{
		Brokers:  parseBrokers(env.str(EnvKafkaBrokers, DefaultKafkaBrokers)),
		ClientID: env.str(EnvKafkaClientID, DefaultClientID),

		ProducerMaxAttempts:  env.integer(EnvKafkaProducerMaxAttempts, DefaultProducerMaxAttempts),
		ProducerBatchTimeout: env.dur(EnvKafkaProducerBatchTimeout, DefaultProducerBatchTimeout),
		ProducerRequireAcks:  env.integer(EnvKafkaProducerRequireAcks, DefaultProducerRequireAcks),
		ProducerCompression:  strings.ToLower(env.str(EnvKafkaProducerCompression, DefaultProducerCompression)),

		ConsumerStartOffset:    int64(env.integer(EnvKafkaConsumerStartOffset, DefaultConsumerStartOffset)),
		ConsumerMinBytes:       env.integer(EnvKafkaConsumerMinBytes, DefaultConsumerMinBytes),
		ConsumerMaxBytes:       env.integer(EnvKafkaConsumerMaxBytes, DefaultConsumerMaxBytes),
		ConsumerMaxWait:        env.dur(EnvKafkaConsumerMaxWait, DefaultConsumerMaxWait),
		ConsumerCommitInterval: env.dur(EnvKafkaConsumerCommitInterval, DefaultConsumerCommitInterval),
		ConsumerSessionTimeout: env.dur(EnvKafkaConsumerSessionTimeout, DefaultConsumerSessionTimeout),
		ConsumerMaxRetries:     env.integer(EnvKafkaConsumerMaxRetries, DefaultConsumerMaxRetries),
		ConsumerRetryBackoff:   env.dur(EnvKafkaConsumerRetryBackoff, DefaultConsumerRetryBackoff),

		DLQTopic: env.str(EnvKafkaDLQTopic, DefaultDLQTopic),
	}

	problems := append(env.problems, cfg.problems()...)
	if len(problems) > 0 {
		return nil, validationError(problems)
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if problems := cfg.problems(); len(problems) > 0 {
		return validationError(problems)
	}
	return nil
}

func (cfg *Config) problems() []string {
	var out []string
	check := func(ok bool, format string, args ...any) {
		if !ok {
			out = append(out, fmt.Sprintf(format, args...))
		}
	}

	check(len(cfg.Brokers) > 0, "At least one Kafka broker is required")
	check(!slices.Contains(cfg.Brokers, ""), "Broker addresses cannot be empty: %v", cfg.Brokers)
	check(cfg.ProducerMaxAttempts > 0, "ProducerMaxAttempts must be positive, got: %d", cfg.ProducerMaxAttempts)
	check(cfg.ProducerBatchTimeout > 0, "ProducerBatchTimeout must be positive, got: %s", cfg.ProducerBatchTimeout)
	check(slices.Contains(compressions, cfg.ProducerCompression),
		"ProducerCompression must be one of %v, got: %s", compressions, cfg.ProducerCompression)
	check(cfg.ProducerRequireAcks >= -1 && cfg.ProducerRequireAcks <= 1,
		"ProducerRequireAcks must be -1, 0 or 1, got: %d", cfg.ProducerRequireAcks)
	check(cfg.ConsumerStartOffset == -1 || cfg.ConsumerStartOffset == -2,
		"ConsumerStartOffset must be -1 (newest) or -2 (oldest), got: %d", cfg.ConsumerStartOffset)
	check(cfg.ConsumerMinBytes > 0 && cfg.ConsumerMaxBytes >= cfg.ConsumerMinBytes,
		"ConsumerMinBytes/ConsumerMaxBytes out of range: %d/%d", cfg.ConsumerMinBytes, cfg.ConsumerMaxBytes)
	check(cfg.ConsumerMaxWait > 0, "ConsumerMaxWait must be positive, got: %s", cfg.ConsumerMaxWait)
	check(cfg.ConsumerSessionTimeout > 0, "ConsumerSessionTimeout must be positive, got: %s", cfg.ConsumerSessionTimeout)
	check(cfg.ConsumerMaxRetries >= 0, "ConsumerMaxRetries cannot be negative, got: %d", cfg.ConsumerMaxRetries)
	return out
}

func validationError(problems []string) error {
	var b strings.Builder
	b.WriteString("Kafka configuration validation failed:\n")
	for i, p := range problems {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, p)
	}
	return fmt.Errorf("%s", b.String())
}

func (cfg *Config) LogConfiguration(log *logger.Logger) {
	log.Info("Kafka configuration loaded",
		"brokers", cfg.Brokers,
		"client_id", cfg.ClientID,
		"producer_require_acks", cfg.ProducerRequireAcks,
		"producer_compression", cfg.ProducerCompression,
		"consumer_start_offset", cfg.ConsumerStartOffset,
		"consumer_max_retries", cfg.ConsumerMaxRetries,
		"dlq_topic", cfg.DLQTopic,
	)
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		brokers = append(brokers, strings.TrimSpace(b))
	}
	return brokers
}

type envReader struct {
	problems []string
}

func (e *envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) integer(key string, fallback int) int {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.problems = append(e.problems, fmt.Sprintf("%s is not an integer: %q", key, v))
		return fallback
	}
	return n
}

func (e *envReader) dur(key string, fallback time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.problems = append(e.problems, fmt.Sprintf("%s is not a duration: %q", key, v))
		return fallback
	}
	return d
}
