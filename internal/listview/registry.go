package listview

import (
	"context"
	"fmt"

	"github.com/lethang/crmmeta/internal/meta"
)

// Factory builds an override provider. The base provider is the
// metadata-derived default for the same doctype, so an override can
// delegate when it has nothing of its own to say.
type Factory func(base Provider) Provider

// factories names every override provider the hooks declaration may bind.
var factories = map[string]Factory{
	// Static descriptor carried over from the customized CRM Lead class.
	"custom_crm_lead": func(Provider) Provider {
		return ProviderFunc(leadListSettings)
	},

	// CRM Deal is declared overridden but ships no list customization;
	// it keeps the metadata-derived settings.
	"custom_crm_deal": func(base Provider) Provider {
		return base
	},
}

// Registry maps doctypes to their list-settings providers. Overrides are
// registered once at startup; lookups afterwards are read-only.
type Registry struct {
	meta      *meta.Service
	overrides map[string]Provider
}

// NewRegistry creates a Registry with no overrides bound.
func NewRegistry(metaSvc *meta.Service) *Registry {
	return &Registry{
		meta:      metaSvc,
		overrides: make(map[string]Provider),
	}
}

// Bind attaches a named override provider to a doctype. Unknown provider
// names are a configuration error.
func (r *Registry) Bind(doctype, providerName string) error {
	factory, ok := factories[providerName]
	if !ok {
		return fmt.Errorf("unknown list provider %q for doctype %s", providerName, doctype)
	}
	base := metaProvider{meta: r.meta, doctype: doctype}
	r.overrides[doctype] = factory(base)
	return nil
}

// Settings returns the list-view settings for a doctype: the bound
// override if one exists, otherwise the metadata-derived default.
func (r *Registry) Settings(ctx context.Context, doctype string) (*Settings, error) {
	if p, ok := r.overrides[doctype]; ok {
		return p.ListSettings(ctx)
	}
	return metaProvider{meta: r.meta, doctype: doctype}.ListSettings(ctx)
}

// leadListSettings is the static CRM Lead descriptor from the override
// layer; it replaces the metadata-derived columns wholesale.
func leadListSettings(context.Context) (*Settings, error) {
	return &Settings{
		Columns: []Column{
			{Label: "Test 1", Type: "Data", Key: "lead_name", Width: "12rem"},
			{Label: "Test 2", Type: "Select", Key: "status", Width: "8rem"},
			{Label: "Organization", Type: "Link", Key: "organization", Options: "CRM Organization", Width: "10rem"},
			{Label: "Email", Type: "Data", Key: "email", Width: "12rem"},
			{Label: "📱 Contact Number", Type: "Data", Key: "mobile_no", Width: "11rem"},
			{Label: "Assigned To", Type: "Text", Key: "_assign", Width: "10rem"},
			{Label: "Last Modified", Type: "Datetime", Key: "modified", Width: "8rem"},
		},
		Rows: []string{
			"name",
			"lead_name",
			"organization",
			"status",
			"email",
			"mobile_no",
			"lead_owner",
			"first_name",
			"sla_status",
			"response_by",
			"first_response_time",
			"first_responded_on",
			"modified",
			"_assign",
			"image",
		},
	}, nil
}
