package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultPort       = "8080"
	defaultDBMaxConns = 10
	defaultCurrency   = "XAF"
)

type Config struct {
	ProjectID       string
	LogLevel        string
	Port            string
	DatabaseURL     string
	DBMaxConns      int32
	DefaultCurrency string
	// DevUID disables token verification and authenticates every request
	// as this uid. Only honoured when AuthDisabled is set.
	AuthDisabled bool
	DevUID       string
}

// New reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over it.
func New() *Config {
	_ = godotenv.Load()

	return &Config{
		ProjectID:       os.Getenv("PROJECTID"),
		LogLevel:        os.Getenv("LOGLEVEL"),
		Port:            getEnv("PORT", defaultPort),
		DatabaseURL:     os.Getenv("DATABASEURL"),
		DBMaxConns:      int32(getEnvInt("DBMAXCONNS", defaultDBMaxConns)),
		DefaultCurrency: strings.ToUpper(getEnv("DEFAULTCURRENCY", defaultCurrency)),
		AuthDisabled:    getEnvBool("AUTHDISABLED"),
		DevUID:          os.Getenv("DEVUID"),
	}
}

// Validate reports every missing or inconsistent setting at once.
func (c *Config) Validate() error {
	var errList []error
	if c.DatabaseURL == "" {
		errList = append(errList, errors.New("DATABASEURL is required"))
	}
	if c.ProjectID == "" {
		errList = append(errList, errors.New("PROJECTID is required"))
	}
	if len(c.DefaultCurrency) != 3 {
		errList = append(errList, fmt.Errorf("DEFAULTCURRENCY must be a 3-letter code, got %q", c.DefaultCurrency))
	}
	if c.DBMaxConns < 1 {
		errList = append(errList, fmt.Errorf("DBMAXCONNS must be positive, got %d", c.DBMaxConns))
	}
	if c.AuthDisabled && c.DevUID == "" {
		errList = append(errList, errors.New("DEVUID is required when AUTHDISABLED is set"))
	}
	return errors.Join(errList...)
}

// AuthBypassUID is the fixed identity used when authentication is disabled.
func (c *Config) AuthBypassUID() string {
	if !c.AuthDisabled {
		return ""
	}
	return c.DevUID
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func getEnvBool(key string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return v
}
