package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the static configuration surface: which countries, which
// indicator, which years, where the artifact goes. Everything comes from the
// environment (or a .env file) with working defaults, so a bare invocation
// produces the Nordic fertility dashboard.
type Config struct {
	// Countries are ISO codes or country names; names get resolved against
	// the World Bank country directory at startup.
	Countries []string `validate:"required,min=1,dive,min=2"`
	Indicator string   `validate:"required"`
	StartYear int      `validate:"required,min=1900"`
	EndYear   int      `validate:"required,gtefield=StartYear"`

	OutPath string `validate:"required"`

	// WorldBankBaseURL overrides the public API endpoint (tests, mirrors).
	WorldBankBaseURL string

	// SFTP drop box for the -sftp flag.
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
}

var validate = validator.New()

// Load reads configuration from the environment with defaults and validates
// it. A missing .env file is fine.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: no .env file loaded: %v", err)
	}

	cfg := Config{
		Countries: SplitList(getenv("DASHBOARD_COUNTRIES", "DK,FI,IS,NO,SE")),
		Indicator: getenv("DASHBOARD_INDICATOR", "SP.DYN.TFRT.IN"),
		StartYear: getenvInt("DASHBOARD_START_YEAR", 1960),
		EndYear:   getenvInt("DASHBOARD_END_YEAR", 2022),
		OutPath:   getenv("DASHBOARD_OUT", "nordic_fertility_dashboard.png"),

		WorldBankBaseURL: os.Getenv("WORLDBANK_BASE_URL"),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   os.Getenv("SFTP_DIR"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOST_KEY", false),
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// SplitList splits a comma-separated env value, trimming blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
		log.Printf("WARN: invalid %s=%q; using default %d", k, v, def)
	}
	return def
}

func getenvBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
		log.Printf("WARN: invalid %s=%q; using default %v", k, v, def)
	}
	return def
}
