// Package layout provides the field-layout tree model, the stored-layout
// store, the default-layout generator, and the resolver that turns a
// (doctype, type) pair into the tab tree a form renderer consumes.
package layout

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lethang/crmmeta/internal/meta"
)

// Layout categories. Unrecognized values pass through to the default-layout
// path unchanged.
const (
	TypeDataFields     = "Data Fields"
	TypeQuickEntry     = "Quick Entry Fields"
	TypeRequiredFields = "Required Fields"
	TypeSidePanel      = "Side Panel Fields"
)

// FieldEntry is one element of a column's field sequence. Before resolution
// it is a bare reference (a fieldname string in JSON); after resolution it
// carries the full field descriptor (an object in JSON).
type FieldEntry struct {
	Ref   string
	Field *meta.DocField
}

// Fieldname returns the reference this entry points at, resolved or not.
func (e FieldEntry) Fieldname() string {
	if e.Field != nil {
		return e.Field.Fieldname
	}
	return e.Ref
}

// Empty reports whether the entry references nothing.
func (e FieldEntry) Empty() bool {
	return e.Field == nil && strings.TrimSpace(e.Ref) == ""
}

func (e FieldEntry) MarshalJSON() ([]byte, error) {
	if e.Field != nil {
		return json.Marshal(e.Field)
	}
	return json.Marshal(e.Ref)
}

func (e *FieldEntry) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" {
		*e = FieldEntry{}
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(b, &e.Ref)
	}
	var f meta.DocField
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("field entry: %w", err)
	}
	e.Field = &f
	e.Ref = f.Fieldname
	return nil
}

// Column is an ordered sequence of field entries.
type Column struct {
	Name   string       `json:"name,omitempty"`
	Fields []FieldEntry `json:"fields"`
}

// Section groups columns under a label. HideLabel suppresses the label in
// the rendered form while keeping it addressable.
type Section struct {
	Label     string    `json:"label"`
	Name      string    `json:"name,omitempty"`
	Opened    bool      `json:"opened"`
	HideLabel bool      `json:"hideLabel,omitempty"`
	Columns   []*Column `json:"columns,omitempty"`
}

// Tab is the top level of the layout tree.
type Tab struct {
	Name     string     `json:"name"`
	Label    string     `json:"label,omitempty"`
	Sections []*Section `json:"sections"`
}

// ParseTree parses serialized layout JSON. Stored layouts come in two
// shapes: a list of tabs, or a flat list of sections from before tabs
// existed. A flat list is wrapped into a single synthetic tab named
// "first_tab". An empty or null document yields an empty tab list.
func ParseTree(raw []byte) ([]*Tab, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("parsing layout tree: %w", err)
	}
	if len(elems) == 0 {
		return nil, nil
	}

	if hasTabShape(elems) {
		var tabs []*Tab
		if err := json.Unmarshal(raw, &tabs); err != nil {
			return nil, fmt.Errorf("parsing layout tabs: %w", err)
		}
		return tabs, nil
	}

	var sections []*Section
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("parsing layout sections: %w", err)
	}
	return WrapSections(sections), nil
}

// hasTabShape reports whether any element carries a "sections" key.
func hasTabShape(elems []json.RawMessage) bool {
	for _, el := range elems {
		var probe struct {
			Sections *json.RawMessage `json:"sections"`
		}
		if err := json.Unmarshal(el, &probe); err != nil {
			continue
		}
		if probe.Sections != nil {
			return true
		}
	}
	return false
}

// WrapSections wraps a flat section list into the synthetic first tab.
// An empty list stays an empty tab list.
func WrapSections(sections []*Section) []*Tab {
	if len(sections) == 0 {
		return nil
	}
	return []*Tab{{Name: "first_tab", Sections: sections}}
}

// AllFieldnames flattens every field reference across all tabs, sections,
// and columns, skipping sections without columns and columns without
// fields. Order follows the tree.
func AllFieldnames(tabs []*Tab) []string {
	var names []string
	for _, tab := range tabs {
		for _, section := range tab.Sections {
			if section == nil || section.Columns == nil {
				continue
			}
			for _, column := range section.Columns {
				if column == nil || len(column.Fields) == 0 {
					continue
				}
				for _, entry := range column.Fields {
					if !entry.Empty() {
						names = append(names, entry.Fieldname())
					}
				}
			}
		}
	}
	return names
}

// randomSuffix returns a short unique suffix for synthetic section and
// column names.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}
