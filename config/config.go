package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Storage StorageConfig
	Observ  ObservabilityConfig
}

type AppConfig struct {
	Env      string
	LogLevel string
}

type StorageConfig struct {
	OrdersDir         string
	ProductsFile      string
	TaxesFile         string
	ExportFile        string
	AuditFile         string
	OrderSequenceFile string
}

type ObservabilityConfig struct {
	JaegerEndpoint  string
	MetricsTextfile string
}

// Load reads configuration from the environment, after loading a .env file
// from the working directory if one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			Env:      getEnv("ENV", "development"),
			LogLevel: getEnv("LOG_LEVEL", "warn"),
		},
		Storage: StorageConfig{
			OrdersDir:         getEnv("ORDERS_DIR", "Orders"),
			ProductsFile:      getEnv("PRODUCTS_FILE", "Data/Products.txt"),
			TaxesFile:         getEnv("TAXES_FILE", "Data/Taxes.txt"),
			ExportFile:        getEnv("EXPORT_FILE", "Backup/DataExport.txt"),
			AuditFile:         getEnv("AUDIT_FILE", "audit.txt"),
			OrderSequenceFile: getEnv("ORDER_SEQUENCE_FILE", "Data/OrderNumber.seq"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint:  getEnv("JAEGER_ENDPOINT", ""),
			MetricsTextfile: getEnv("METRICS_TEXTFILE", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}
