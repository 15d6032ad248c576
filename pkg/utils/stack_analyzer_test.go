package utils

import (
	"encoding/json"
	"testing"

	wappalyze "github.com/projectdiscovery/wappalyzergo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByCategory(t *testing.T) {
	detected := map[string]wappalyze.AppInfo{
		"Nginx:1.25.3": {Categories: []string{"Web servers", "Reverse proxies"}},
		"React":        {Categories: []string{"JavaScript frameworks"}},
		"Vue.js:3":     {Categories: []string{"JavaScript frameworks"}},
		"HSTS":         {},
	}

	stack := groupByCategory(detected)
	assert.Equal(t, TechStack{
		"Web servers":           {"Nginx 1.25.3"},
		"Reverse proxies":       {"Nginx 1.25.3"},
		"JavaScript frameworks": {"React", "Vue.js 3"},
		"Other":                 {"HSTS"},
	}, stack)
}

func TestGroupByCategoryEmpty(t *testing.T) {
	stack := groupByCategory(nil)
	require.NotNil(t, stack)

	data, err := json.Marshal(stack)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}
