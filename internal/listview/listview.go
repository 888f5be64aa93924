// Package listview provides list-view settings for doctypes: the column and
// row descriptors a list renderer consumes. Doctype-specific overrides are
// bound through a registry built once at startup from the hooks declaration.
package listview

import (
	"context"

	"github.com/lethang/crmmeta/internal/meta"
)

// Column describes one list-view column.
type Column struct {
	Label   string `json:"label"`
	Type    string `json:"type"`
	Key     string `json:"key"`
	Options string `json:"options,omitempty"`
	Width   string `json:"width,omitempty"`
}

// Settings is the full list-view descriptor: the columns to render and the
// row fields to fetch.
type Settings struct {
	Columns []Column `json:"columns"`
	Rows    []string `json:"rows"`
}

// Provider supplies the list-view settings for one doctype.
type Provider interface {
	ListSettings(ctx context.Context) (*Settings, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context) (*Settings, error)

func (f ProviderFunc) ListSettings(ctx context.Context) (*Settings, error) {
	return f(ctx)
}

// metaProvider derives list settings from doctype metadata: every
// in_list_view field becomes a column, and the row set is the column keys
// plus the identity and modification fields.
type metaProvider struct {
	meta    *meta.Service
	doctype string
}

func (p metaProvider) ListSettings(ctx context.Context) (*Settings, error) {
	dt, err := p.meta.Meta(ctx, p.doctype)
	if err != nil {
		return nil, err
	}

	settings := &Settings{Rows: []string{"name"}}
	for _, f := range dt.Fields {
		if !f.InListView || f.Hidden || f.IsLayoutField() {
			continue
		}
		col := Column{
			Label: f.Label,
			Type:  f.Fieldtype,
			Key:   f.Fieldname,
			Width: "10rem",
		}
		if f.Fieldtype == "Link" {
			col.Options = f.Options
		}
		settings.Columns = append(settings.Columns, col)
		settings.Rows = append(settings.Rows, f.Fieldname)
	}
	settings.Rows = append(settings.Rows, "modified")
	return settings, nil
}
