package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DNS_NAMESERVERS", "")
	t.Setenv("PAGE_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Lookup.PageTimeout)
	assert.Equal(t, 3*time.Second, cfg.Lookup.DNSQueryTimeout)
	assert.Equal(t, 5*time.Second, cfg.Lookup.DNSLifetime)
	assert.NotEmpty(t, cfg.Lookup.Nameservers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DNS_NAMESERVERS", "9.9.9.9:53, 1.1.1.1")
	t.Setenv("GEO_TIMEOUT", "7")
	t.Setenv("PAGE_TIMEOUT", "2500ms")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"9.9.9.9:53", "1.1.1.1:53"}, cfg.Lookup.Nameservers)
	assert.Equal(t, 7*time.Second, cfg.Lookup.GeoTimeout)
	assert.Equal(t, 2500*time.Millisecond, cfg.Lookup.PageTimeout)
}
