// Package config loads the gateway configuration from the environment.
//
// Values are read with go-env struct tags and then validated. Any problem is
// reported as an *apperr.ConfigurationError so the entry point can refuse to
// start before a listener is bound.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"

	"github.com/vitormoschetta/secretai-gateway/internal/apperr"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds every recognized environment option.
type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT,default=5000" validate:"min=1,max=65535"`

	CompletionProvider    string  `env:"COMPLETION_PROVIDER,default=openai" validate:"oneof=openai gemini"`
	OpenAIAPIKey          string  `env:"OPENAI_API_KEY" validate:"required_if=CompletionProvider openai"`
	OpenAIModel           string  `env:"OPENAI_MODEL,default=gpt-3.5-turbo" validate:"required"`
	OpenAIBaseURL         string  `env:"OPENAI_BASE_URL" validate:"omitempty,url"`
	GoogleAPIKey          string  `env:"GOOGLE_API_KEY" validate:"required_if=CompletionProvider gemini"`
	GeminiModel           string  `env:"GEMINI_MODEL,default=gemini-2.5-flash" validate:"required"`
	CompletionTemperature float64 `env:"COMPLETION_TEMPERATURE,default=0" validate:"gte=0,lte=2"`
	CompletionMaxTokens   int     `env:"COMPLETION_MAX_TOKENS,default=0" validate:"gte=0"`

	StripeSecretKey    string `env:"STRIPE_SECRET_KEY"`
	StripePriceID      string `env:"STRIPE_PRICE_ID"`
	CheckoutSuccessURL string `env:"CHECKOUT_SUCCESS_URL,default=https://aisecret2025.com/success" validate:"required,url"`
	CheckoutCancelURL  string `env:"CHECKOUT_CANCEL_URL,default=https://aisecret2025.com/cancel" validate:"required,url"`

	ProviderTimeout    time.Duration `env:"PROVIDER_TIMEOUT,default=30s" validate:"gt=0"`
	ExposeErrorDetails bool          `env:"EXPOSE_ERROR_DETAILS,default=true"`

	StaticDir          string `env:"STATIC_DIR,default=public"`
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS,default=*"`
	RealtimeEnabled    bool   `env:"REALTIME_ENABLED,default=true"`
	MCPEnabled         bool   `env:"MCP_ENABLED,default=true"`

	LogLevel  string `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT,default=json" validate:"oneof=json text"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT,default=15s" validate:"gt=0"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT,default=60s" validate:"gt=0"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT,default=60s" validate:"gt=0"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their environment variable name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("env"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Load reads the process environment into a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, &apperr.ConfigurationError{Reason: fmt.Sprintf("cannot read environment: %v", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges, enumerations and the credential of the selected
// completion provider.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &apperr.ConfigurationError{Reason: err.Error()}
	}

	fe := fieldErrs[0]
	return &apperr.ConfigurationError{Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return fmt.Sprintf("is required when COMPLETION_PROVIDER=%s", strings.Fields(fe.Param())[1])
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("must be a valid URL, got %q", fe.Value())
	default:
		return fmt.Sprintf("failed %s=%s check, got %v", fe.Tag(), fe.Param(), fe.Value())
	}
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CheckoutEnabled reports whether the payment provider can be called.
func (c *Config) CheckoutEnabled() bool {
	return c.StripeSecretKey != "" && c.StripePriceID != ""
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
