package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode"

	"rentalhub/internal/domain/constants"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/slighter12/go-lib/database/postgres"
)

const (
	defaultPath               = "."
	defaultMaxRequestBodySize = "100KB"
	defaultServiceFeePercent  = "3"
	defaultIdempotencyTTL     = 24 * time.Hour
	defaultPageSize           = 20
	defaultMaxPageSize        = 100
	defaultAccessTokenTTL     = 15 * time.Minute
)

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port               int    `json:"port" yaml:"port"`
		MaxRequestBodySize string `json:"maxRequestBodySize" yaml:"maxRequestBodySize"`
		Timeouts           struct {
			ReadTimeout       time.Duration `json:"readTimeout" yaml:"readTimeout"`
			ReadHeaderTimeout time.Duration `json:"readHeaderTimeout" yaml:"readHeaderTimeout"`
			WriteTimeout      time.Duration `json:"writeTimeout" yaml:"writeTimeout"`
			IdleTimeout       time.Duration `json:"idleTimeout" yaml:"idleTimeout"`
		} `json:"timeouts" yaml:"timeouts"`
	} `json:"http" yaml:"http"`

	// Storage selects the persistence backend
	Storage StorageConfig `json:"storage" yaml:"storage"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Redis backs the checkout idempotency store
	Redis *RedisConfig `json:"redis" yaml:"redis"`

	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth *AuthConfig `json:"auth" yaml:"auth"`

	// ServiceFee holds the fallback rate used when no service-fee policy is active
	ServiceFee ServiceFeeConfig `json:"serviceFee" yaml:"serviceFee"`

	// Checkout configuration for order creation
	Checkout CheckoutConfig `json:"checkout" yaml:"checkout"`

	Pagination PaginationConfig `json:"pagination" yaml:"pagination"`

	// Catalog seeds the in-memory item catalog
	Catalog *CatalogConfig `json:"catalog" yaml:"catalog"`

	// QRCode configuration for order handover QR codes
	QRCode *QRCodeConfig `json:"qrcode" yaml:"qrcode"`

	// PubSub configuration for event publishing
	PubSub *PubSubConfig `json:"pubsub" yaml:"pubsub"`

	// Firebase configuration for order push notifications
	Firebase *FirebaseConfig `json:"firebase" yaml:"firebase"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	// Driver is "postgres" or "memory"
	Driver string `json:"driver" yaml:"driver"`
	// AutoMigrate creates tables and constraints on start (postgres only)
	AutoMigrate bool `json:"autoMigrate" yaml:"autoMigrate"`
}

// RedisConfig defines the Redis connection
type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

// AuthConfig defines authentication-related configuration
type AuthConfig struct {
	AccessTokenTTL time.Duration `json:"accessTokenTTL" yaml:"accessTokenTTL"`
}

// ServiceFeeConfig defines the service fee fallback
type ServiceFeeConfig struct {
	DefaultRatePercent decimal.Decimal `json:"defaultRatePercent" yaml:"defaultRatePercent"`
}

// CheckoutConfig defines order creation settings
type CheckoutConfig struct {
	// IdempotencyDriver is "redis" or "memory"
	IdempotencyDriver string        `json:"idempotencyDriver" yaml:"idempotencyDriver"`
	IdempotencyTTL    time.Duration `json:"idempotencyTTL" yaml:"idempotencyTTL"`
}

// PaginationConfig defines list endpoint limits
type PaginationConfig struct {
	DefaultPageSize int `json:"defaultPageSize" yaml:"defaultPageSize"`
	MaxPageSize     int `json:"maxPageSize" yaml:"maxPageSize"`
}

// CatalogConfig lists items loaded into the in-memory catalog
type CatalogConfig struct {
	Items []CatalogItem `json:"items" yaml:"items"`
}

// CatalogItem is one seeded catalog entry
type CatalogItem struct {
	ID            string   `json:"id" yaml:"id"`
	OwnerID       string   `json:"ownerId" yaml:"ownerId"`
	Title         string   `json:"title" yaml:"title"`
	BasePrice     int64    `json:"basePrice" yaml:"basePrice"`
	PriceUnit     string   `json:"priceUnit" yaml:"priceUnit"`
	DepositAmount int64    `json:"depositAmount" yaml:"depositAmount"`
	Images        []string `json:"images" yaml:"images"`
}

// FirebaseConfig defines Firebase configuration for push notifications.
// Without a credentials path notifications are only logged.
type FirebaseConfig struct {
	ProjectID       string `json:"projectId" yaml:"projectId"`
	CredentialsPath string `json:"credentialsPath" yaml:"credentialsPath"`
}

// QRCodeConfig defines QR code generation configuration
type QRCodeConfig struct {
	Size                 int    `json:"size" yaml:"size"`
	ErrorCorrectionLevel string `json:"errorCorrectionLevel" yaml:"errorCorrectionLevel"`
}

// PubSubConfig defines Pub/Sub configuration for event publishing
type PubSubConfig struct {
	// Provider type: "noop", "local" for local HTTP or "google" for Google Pub/Sub
	Provider string `json:"provider" yaml:"provider"`

	// Google Cloud project ID (for google provider)
	ProjectID string `json:"projectId" yaml:"projectId"`

	// Pub/Sub topic ID (for google provider)
	TopicID string `json:"topicId" yaml:"topicId"`

	// Local HTTP endpoint for development (for local provider)
	LocalEndpoint string `json:"localEndpoint" yaml:"localEndpoint"`
}

// LoadWithEnv loads .yaml files through koanf.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: SERVICEFEE_DEFAULTRATEPERCENT -> serviceFee.defaultRatePercent
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				stringToDecimalHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.HTTP.MaxRequestBodySize) == "" {
		cfg.HTTP.MaxRequestBodySize = defaultMaxRequestBodySize
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = constants.StorageDriverPostgres
	}
	if cfg.ServiceFee.DefaultRatePercent.IsZero() {
		cfg.ServiceFee.DefaultRatePercent = decimal.RequireFromString(defaultServiceFeePercent)
	}
	if cfg.Checkout.IdempotencyTTL <= 0 {
		cfg.Checkout.IdempotencyTTL = defaultIdempotencyTTL
	}
	if cfg.Checkout.IdempotencyDriver == "" {
		cfg.Checkout.IdempotencyDriver = constants.IdempotencyDriverMemory
	}
	if cfg.Pagination.DefaultPageSize <= 0 {
		cfg.Pagination.DefaultPageSize = defaultPageSize
	}
	if cfg.Pagination.MaxPageSize <= 0 {
		cfg.Pagination.MaxPageSize = defaultMaxPageSize
	}
	if cfg.Auth == nil {
		cfg.Auth = &AuthConfig{}
	}
	if cfg.Auth.AccessTokenTTL <= 0 {
		cfg.Auth.AccessTokenTTL = defaultAccessTokenTTL
	}
}

// stringToDecimalHookFunc decodes YAML/env scalars into decimal.Decimal.
func stringToDecimalHookFunc() mapstructure.DecodeHookFuncType {
	decimalType := reflect.TypeOf(decimal.Decimal{})

	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if to != decimalType {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return decimal.Zero, nil
			}

			return decimal.NewFromString(strings.TrimSpace(v))
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case float64:
			return decimal.NewFromFloat(v), nil
		default:
			return data, nil
		}
	}
}

func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}

		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}

	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}

		child, _ := value.(map[string]any)

		return key, child, true
	}

	return "", nil, false
}

func normalizeToken(s string) string {
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
