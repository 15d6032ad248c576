package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vit0-9/site_analyzer/pkg/utils"
)

type Config struct {
	Env          string
	Port         string
	GinMode      string
	GeoProvider  string
	MMDBCityPath string
	MMDBASNPath  string
	Lookup       utils.LookupOptions
}

// Load reads the configuration from the environment. godotenv has already
// merged any .env file into the process environment by the time this runs.
func Load() *Config {
	var nameservers []string
	for _, ns := range getEnvList("DNS_NAMESERVERS") {
		if _, _, err := net.SplitHostPort(ns); err != nil {
			ns = net.JoinHostPort(ns, "53")
		}
		nameservers = append(nameservers, ns)
	}
	if len(nameservers) == 0 {
		nameservers = utils.SystemNameservers()
	}

	return &Config{
		Env:          getEnv("ENV", "dev"),
		Port:         getEnv("PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", ""),
		GeoProvider:  getEnv("GEO_PROVIDER", utils.GeoProviderIPAPI),
		MMDBCityPath: getEnv("MMDB_CITY_PATH", ""),
		MMDBASNPath:  getEnv("MMDB_ASN_PATH", ""),
		Lookup: utils.LookupOptions{
			WhoisTimeout:    getEnvDuration("WHOIS_TIMEOUT", 15*time.Second),
			PageTimeout:     getEnvDuration("PAGE_TIMEOUT", 10*time.Second),
			ArchiveTimeout:  getEnvDuration("ARCHIVE_TIMEOUT", 10*time.Second),
			GeoTimeout:      getEnvDuration("GEO_TIMEOUT", 5*time.Second),
			DNSQueryTimeout: getEnvDuration("DNS_QUERY_TIMEOUT", 3*time.Second),
			DNSLifetime:     getEnvDuration("DNS_LIFETIME", 5*time.Second),
			Nameservers:     nameservers,
			ArchiveCDXURL:   getEnv("ARCHIVE_CDX_URL", utils.DefaultArchiveCDXURL),
			GeoAPIURL:       getEnv("GEO_API_URL", utils.DefaultGeoAPIURL),
			UserAgent:       getEnv("USER_AGENT", ""),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		// bare integers are seconds
		if secs := getEnvInt(key, 0); secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
