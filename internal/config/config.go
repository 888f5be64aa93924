// Package config loads the service configuration and the hooks declaration:
// the substitution rules, list-view overrides, RPC method overrides, and
// website route rules that customize baseline behavior. Hooks are plain
// configuration, bound to registries once at startup.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Config is the full service configuration.
type Config struct {
	Server   Server   `toml:"server"`
	Database Database `toml:"database"`
	Cache    Cache    `toml:"cache"`
	Hooks    Hooks    `toml:"hooks"`
}

// Server holds HTTP server settings.
type Server struct {
	Port int `toml:"port" validate:"gte=1,lte=65535"`
}

// Database holds SQLite settings.
type Database struct {
	Path string `toml:"path" validate:"required"`
}

// Cache selects the doctype metadata cache backend.
type Cache struct {
	Backend    string `toml:"backend" validate:"oneof=memory redis"`
	RedisAddr  string `toml:"redis_addr" validate:"required_if=Backend redis"`
	TTLSeconds int    `toml:"ttl_seconds" validate:"gte=0"`
}

// Hooks is the declarative customization surface.
type Hooks struct {
	FieldSubstitutions []FieldSubstitution `toml:"field_substitutions" validate:"dive"`
	ListOverrides      map[string]string   `toml:"list_overrides"`
	MethodOverrides    []MethodOverride    `toml:"method_overrides" validate:"dive"`
	RouteRules         []RouteRule         `toml:"route_rules" validate:"dive"`
}

// FieldSubstitution replaces one field reference with another in stored
// layouts of one (doctype, layout type) pair, before resolution.
type FieldSubstitution struct {
	Doctype    string `toml:"doctype" validate:"required"`
	LayoutType string `toml:"layout_type" validate:"required"`
	From       string `toml:"from" validate:"required"`
	To         string `toml:"to" validate:"required,nefield=From"`
}

// MethodOverride repoints a dotted RPC method path at a named handler.
type MethodOverride struct {
	Method  string `toml:"method" validate:"required"`
	Handler string `toml:"handler" validate:"required"`
}

// RouteRule redirects a URL path pattern to a single-page app entry.
type RouteRule struct {
	FromRoute string `toml:"from_route" validate:"required,startswith=/"`
	ToRoute   string `toml:"to_route" validate:"required"`
}

// Default returns the shipped configuration, including the one field
// substitution this override layer exists for.
func Default() *Config {
	return &Config{
		Server:   Server{Port: 8080},
		Database: Database{Path: "crmmeta.db"},
		Cache:    Cache{Backend: "memory"},
		Hooks: Hooks{
			FieldSubstitutions: []FieldSubstitution{
				{
					Doctype:    "CRM Deal",
					LayoutType: "Data Fields",
					From:       "annual_revenue",
					To:         "deal_value",
				},
			},
			ListOverrides: map[string]string{
				"CRM Lead": "custom_crm_lead",
				"CRM Deal": "custom_crm_deal",
			},
			MethodOverrides: []MethodOverride{
				{
					Method:  "crm.fcrm.doctype.crm_fields_layout.crm_fields_layout.get_fields_layout",
					Handler: "fields_layout.get",
				},
			},
			RouteRules: []RouteRule{
				{FromRoute: "/crm/*", ToRoute: "crm"},
			},
		},
	}
}

// Load reads a TOML config file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("decoding config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks structural constraints on the configuration.
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
