package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Hooks.FieldSubstitutions, 1)
	sub := cfg.Hooks.FieldSubstitutions[0]
	assert.Equal(t, "CRM Deal", sub.Doctype)
	assert.Equal(t, "Data Fields", sub.LayoutType)
	assert.Equal(t, "annual_revenue", sub.From)
	assert.Equal(t, "deal_value", sub.To)

	assert.Equal(t, "custom_crm_lead", cfg.Hooks.ListOverrides["CRM Lead"])
	assert.Equal(t, "memory", cfg.Cache.Backend)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crmmeta.toml")
	doc := `
[server]
port = 9090

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl_seconds = 60

[[hooks.field_substitutions]]
doctype = "CRM Lead"
layout_type = "Quick Entry Fields"
from = "mobile_no"
to = "phone"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	require.Len(t, cfg.Hooks.FieldSubstitutions, 1)
	assert.Equal(t, "CRM Lead", cfg.Hooks.FieldSubstitutions[0].Doctype)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate_RejectsBadBackend(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "memcached"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RedisRequiresAddr(t *testing.T) {
	cfg := Default()
	cfg.Cache.Backend = "redis"
	cfg.Cache.RedisAddr = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_SubstitutionMustChangeField(t *testing.T) {
	cfg := Default()
	cfg.Hooks.FieldSubstitutions[0].To = cfg.Hooks.FieldSubstitutions[0].From
	assert.Error(t, cfg.Validate())
}

func TestValidate_RouteRuleMustStartWithSlash(t *testing.T) {
	cfg := Default()
	cfg.Hooks.RouteRules[0].FromRoute = "crm/*"
	assert.Error(t, cfg.Validate())
}
