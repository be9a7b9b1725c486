// Package config loads pagelens configuration from viper and validates it.
package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/pagelens/pkg/cleaner/noise"
	"github.com/jmylchreest/pagelens/pkg/entity"
	"github.com/jmylchreest/pagelens/pkg/pagelens"
	"github.com/jmylchreest/pagelens/pkg/ranker"
)

// Config is the full pagelens configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Cleaner    CleanerConfig    `mapstructure:"cleaner"`
	Entities   EntitiesConfig   `mapstructure:"entities"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Host            string        `mapstructure:"host" validate:"required,loopback"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	MaxBodySize     string        `mapstructure:"max_body_size" validate:"required,bytesize"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `mapstructure:"cors_origins" validate:"min=1,dive,required"`
}

// SummarizerConfig selects the ranking strategy per output.
type SummarizerConfig struct {
	HeadlineRanker string `mapstructure:"headline_ranker" validate:"ranker"`
	FactsRanker    string `mapstructure:"facts_ranker" validate:"ranker"`
	BriefRanker    string `mapstructure:"brief_ranker" validate:"ranker"`
	AnswerRanker   string `mapstructure:"answer_ranker" validate:"ranker"`
	DetectLists    bool   `mapstructure:"detect_lists"`
}

// CleanerConfig selects the text cleaner preset.
type CleanerConfig struct {
	Preset string `mapstructure:"preset" validate:"oneof=default minimal strict"`
}

// EntitiesConfig configures entity extraction.
type EntitiesConfig struct {
	VerifyInSource bool    `mapstructure:"verify_in_source"`
	Confidence     float64 `mapstructure:"confidence" validate:"gte=0,lte=1"`
}

// Defaults for the HTTP API.
const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8000
	DefaultMaxBodySize     = "5MB"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.max_body_size", DefaultMaxBodySize)
	v.SetDefault("server.read_timeout", DefaultReadTimeout)
	v.SetDefault("server.write_timeout", DefaultWriteTimeout)
	v.SetDefault("server.shutdown_timeout", DefaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})

	rankers := pagelens.DefaultRankers()
	v.SetDefault("summarizer.headline_ranker", rankers.Headline)
	v.SetDefault("summarizer.facts_ranker", rankers.Facts)
	v.SetDefault("summarizer.brief_ranker", rankers.Brief)
	v.SetDefault("summarizer.answer_ranker", rankers.Answer)
	v.SetDefault("summarizer.detect_lists", true)

	v.SetDefault("cleaner.preset", "default")

	defaults := entity.DefaultConfig()
	v.SetDefault("entities.verify_in_source", defaults.VerifyInSource)
	v.SetDefault("entities.confidence", defaults.Confidence)
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	cfg, err := Load(viper.New())
	if err != nil {
		// Defaults are constants; failing here is a programming error.
		panic(err)
	}
	return cfg
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("loopback", func(fl validator.FieldLevel) bool {
		return IsLoopback(fl.Field().String())
	})
	_ = v.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		n, err := humanize.ParseBytes(fl.Field().String())
		return err == nil && n > 0
	})
	_ = v.RegisterValidation("ranker", func(fl validator.FieldLevel) bool {
		return ranker.IsRegistered(fl.Field().String())
	})
	return v
}

// Validate checks every field and reports all failures at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "loopback":
		return fmt.Sprintf("%s: %q is not a loopback address", field, fe.Value())
	case "bytesize":
		return fmt.Sprintf("%s: %q is not a byte size (e.g. 5MB)", field, fe.Value())
	case "ranker":
		return fmt.Sprintf("%s: unknown ranker %q (available: %s)", field, fe.Value(), strings.Join(ranker.Available(), ", "))
	case "oneof":
		return fmt.Sprintf("%s: %q must be one of %s", field, fe.Value(), fe.Param())
	default:
		return fmt.Sprintf("%s: failed %s=%s (got %v)", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// IsLoopback reports whether host is "localhost" or a loopback IP.
func IsLoopback(host string) bool {
	if strings.EqualFold(host, "localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, fmt.Sprint(s.Port))
}

// MaxBodyBytes returns the parsed body size limit.
func (s ServerConfig) MaxBodyBytes() int64 {
	n, err := humanize.ParseBytes(s.MaxBodySize)
	if err != nil {
		return 0
	}
	return int64(n)
}

// AnalyzerOptions translates the configuration into pagelens options.
func (c *Config) AnalyzerOptions() []pagelens.Option {
	cleanerCfg, ok := noise.Preset(c.Cleaner.Preset)
	if !ok {
		cleanerCfg = noise.DefaultConfig()
	}

	entityCfg := entity.DefaultConfig()
	entityCfg.VerifyInSource = c.Entities.VerifyInSource
	entityCfg.Confidence = c.Entities.Confidence

	return []pagelens.Option{
		pagelens.WithCleaner(cleanerCfg),
		pagelens.WithRankers(pagelens.Rankers{
			Headline: c.Summarizer.HeadlineRanker,
			Facts:    c.Summarizer.FactsRanker,
			Brief:    c.Summarizer.BriefRanker,
			Answer:   c.Summarizer.AnswerRanker,
		}),
		pagelens.WithDetectLists(c.Summarizer.DetectLists),
		pagelens.WithEntityConfig(entityCfg),
	}
}
