// backend-go/internal/config/config.go
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/analysis"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Analysis AnalysisConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	LogLevel       string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type AppConfig struct {
	SeedSample bool
}

type CacheConfig struct {
	Enabled          bool
	RedisURL         string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	ReportTTLSeconds int
}

type StorageConfig struct {
	Driver        string // local | minio | none
	LocalDir      string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	Prefix        string
	PublicBaseURL string
}

// AnalysisConfig mirrors analysis.Params as flat environment keys.
type AnalysisConfig struct {
	Model           string
	ServiceLevelZ   float64
	OrderingCost    float64
	HoldingCostRate float64
	ClassAThreshold float64
	ClassBThreshold float64

	WeightStockCriticality  float64
	WeightBusinessValue     float64
	WeightOperationalRisk   float64
	WeightStockoutRisk      float64
	WeightStockLevel        float64
	WeightInventoryValue    float64
	WeightABC               float64
	WeightDemandVariability float64
	WeightLeadTimeRisk      float64

	BandCritical float64
	BandHigh     float64
	BandMedium   float64
}

var (
	once     sync.Once
	instance *Config
)

// Load returns the process-wide configuration, reading it on first use.
func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		instance = New(viper.GetViper())

		if instance.Storage.Driver == "local" {
			ensureDir(instance.Storage.LocalDir)
		}
	})

	return instance
}

// New reads a configuration from v without caching it.
func New(v *viper.Viper) *Config {
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		App: AppConfig{
			SeedSample: v.GetBool("APP_SEED_SAMPLE"),
		},
		Cache: CacheConfig{
			Enabled:          v.GetBool("CACHE_ENABLED"),
			RedisURL:         v.GetString("REDIS_URL"),
			RedisHost:        v.GetString("REDIS_HOST"),
			RedisPort:        v.GetString("REDIS_PORT"),
			RedisPassword:    v.GetString("REDIS_PASSWORD"),
			RedisDB:          v.GetInt("REDIS_DB"),
			ReportTTLSeconds: v.GetInt("CACHE_REPORT_TTL_SECONDS"),
		},
		Storage: StorageConfig{
			Driver:        v.GetString("STORAGE_DRIVER"),
			LocalDir:      v.GetString("STORAGE_LOCAL_DIR"),
			Endpoint:      v.GetString("STORAGE_ENDPOINT"),
			AccessKey:     v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:     v.GetString("STORAGE_SECRET_KEY"),
			Bucket:        v.GetString("STORAGE_BUCKET"),
			UseSSL:        v.GetBool("STORAGE_USE_SSL"),
			Prefix:        v.GetString("STORAGE_PREFIX"),
			PublicBaseURL: v.GetString("STORAGE_PUBLIC_BASE_URL"),
		},
		Analysis: AnalysisConfig{
			Model:                   v.GetString("ANALYSIS_MODEL"),
			ServiceLevelZ:           v.GetFloat64("ANALYSIS_SERVICE_LEVEL_Z"),
			OrderingCost:            v.GetFloat64("ANALYSIS_ORDERING_COST"),
			HoldingCostRate:         v.GetFloat64("ANALYSIS_HOLDING_COST_RATE"),
			ClassAThreshold:         v.GetFloat64("ANALYSIS_CLASS_A_THRESHOLD"),
			ClassBThreshold:         v.GetFloat64("ANALYSIS_CLASS_B_THRESHOLD"),
			WeightStockCriticality:  v.GetFloat64("ANALYSIS_WEIGHT_STOCK_CRITICALITY"),
			WeightBusinessValue:     v.GetFloat64("ANALYSIS_WEIGHT_BUSINESS_VALUE"),
			WeightOperationalRisk:   v.GetFloat64("ANALYSIS_WEIGHT_OPERATIONAL_RISK"),
			WeightStockoutRisk:      v.GetFloat64("ANALYSIS_WEIGHT_STOCKOUT_RISK"),
			WeightStockLevel:        v.GetFloat64("ANALYSIS_WEIGHT_STOCK_LEVEL"),
			WeightInventoryValue:    v.GetFloat64("ANALYSIS_WEIGHT_INVENTORY_VALUE"),
			WeightABC:               v.GetFloat64("ANALYSIS_WEIGHT_ABC"),
			WeightDemandVariability: v.GetFloat64("ANALYSIS_WEIGHT_DEMAND_VARIABILITY"),
			WeightLeadTimeRisk:      v.GetFloat64("ANALYSIS_WEIGHT_LEAD_TIME_RISK"),
			BandCritical:            v.GetFloat64("ANALYSIS_BAND_CRITICAL"),
			BandHigh:                v.GetFloat64("ANALYSIS_BAND_HIGH"),
			BandMedium:              v.GetFloat64("ANALYSIS_BAND_MEDIUM"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("APP_SEED_SAMPLE", false)
	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_REPORT_TTL_SECONDS", 3600)
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_LOCAL_DIR", "./data/published")
	v.SetDefault("STORAGE_ENDPOINT", "")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "stock-opname")
	v.SetDefault("STORAGE_USE_SSL", true)
	v.SetDefault("STORAGE_PREFIX", "exports")
	v.SetDefault("STORAGE_PUBLIC_BASE_URL", "")

	d := analysis.DefaultParams()
	v.SetDefault("ANALYSIS_MODEL", string(d.Model))
	v.SetDefault("ANALYSIS_SERVICE_LEVEL_Z", d.ServiceLevelZ)
	v.SetDefault("ANALYSIS_ORDERING_COST", d.OrderingCost)
	v.SetDefault("ANALYSIS_HOLDING_COST_RATE", d.HoldingCostRate)
	v.SetDefault("ANALYSIS_CLASS_A_THRESHOLD", d.ClassAThreshold)
	v.SetDefault("ANALYSIS_CLASS_B_THRESHOLD", d.ClassBThreshold)
	v.SetDefault("ANALYSIS_WEIGHT_STOCK_CRITICALITY", d.Weights.StockCriticality)
	v.SetDefault("ANALYSIS_WEIGHT_BUSINESS_VALUE", d.Weights.BusinessValue)
	v.SetDefault("ANALYSIS_WEIGHT_OPERATIONAL_RISK", d.Weights.OperationalRisk)
	v.SetDefault("ANALYSIS_WEIGHT_STOCKOUT_RISK", d.Weights.StockoutRisk)
	v.SetDefault("ANALYSIS_WEIGHT_STOCK_LEVEL", d.Weights.StockLevel)
	v.SetDefault("ANALYSIS_WEIGHT_INVENTORY_VALUE", d.Weights.InventoryValue)
	v.SetDefault("ANALYSIS_WEIGHT_ABC", d.Weights.ABC)
	v.SetDefault("ANALYSIS_WEIGHT_DEMAND_VARIABILITY", d.Weights.DemandVariability)
	v.SetDefault("ANALYSIS_WEIGHT_LEAD_TIME_RISK", d.Weights.LeadTimeRisk)
	v.SetDefault("ANALYSIS_BAND_CRITICAL", d.Bands.Critical)
	v.SetDefault("ANALYSIS_BAND_HIGH", d.Bands.High)
	v.SetDefault("ANALYSIS_BAND_MEDIUM", d.Bands.Medium)
}

// Params converts the configuration into validated engine parameters. The
// weights only shape the ahp model; the additive model scores by fixed points.
func (c AnalysisConfig) Params() (analysis.Params, error) {
	p := analysis.DefaultParams()
	p.Model = analysis.ScoringModel(c.Model)
	p.ServiceLevelZ = c.ServiceLevelZ
	p.OrderingCost = c.OrderingCost
	p.HoldingCostRate = c.HoldingCostRate
	p.ClassAThreshold = c.ClassAThreshold
	p.ClassBThreshold = c.ClassBThreshold
	p.Weights = analysis.Weights{
		StockCriticality:  c.WeightStockCriticality,
		BusinessValue:     c.WeightBusinessValue,
		OperationalRisk:   c.WeightOperationalRisk,
		StockoutRisk:      c.WeightStockoutRisk,
		StockLevel:        c.WeightStockLevel,
		InventoryValue:    c.WeightInventoryValue,
		ABC:               c.WeightABC,
		DemandVariability: c.WeightDemandVariability,
		LeadTimeRisk:      c.WeightLeadTimeRisk,
	}
	p.Bands = analysis.UrgencyBands{
		Critical: c.BandCritical,
		High:     c.BandHigh,
		Medium:   c.BandMedium,
	}
	if err := p.Validate(); err != nil {
		return analysis.Params{}, fmt.Errorf("analysis config: %w", err)
	}
	return p, nil
}

func ensureDir(dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatal().Err(err).Str("dir", dir).Msg("Failed to create directory")
		}
	}
}
