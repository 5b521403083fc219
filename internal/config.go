package internal

import (
	"strings"
	"time"
)

type Config struct {
	BufferSize          int           `env:"BUFFER_SIZE,required=true"`
	NumberOfTranslators int           `env:"NUMBER_OF_TRANSLATORS,required=true"`
	LimitMessages       *int          `env:"LIMIT_MESSAGES"`
	RestartInterval     time.Duration `env:"RESTART_INTERVAL,required=true"`
	MetricInterval      time.Duration `env:"METRIC_INTERVAL,required=true"`
	AuthTokenDuration   time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
	BadgerFilepath      string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath       string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel            string        `env:"LOG_LEVEL,required=true"`
	Host                string        `env:"HOST,default=localhost"`
	Port                int           `env:"PORT,default=8080"`
	AllowedOrigins      string        `env:"ALLOWED_ORIGINS,default=*"`
	CensoredWords       string        `env:"CENSORED_WORDS"`

	TranslatorBaseURL string        `env:"TRANSLATOR_BASE_URL,required=true"`
	TranslatorModel   string        `env:"TRANSLATOR_MODEL,required=true"`
	TranslatorAPIKey  string        `env:"TRANSLATOR_API_KEY"`
	TranslatorTimeout time.Duration `env:"TRANSLATOR_TIMEOUT,default=30s"`
}

// Origins splits the comma-separated ALLOWED_ORIGINS value.
func (c Config) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// Blacklist splits the comma-separated CENSORED_WORDS value. Empty by
// default: moderation is opt-in per deployment.
func (c Config) Blacklist() []string {
	return splitList(c.CensoredWords)
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
