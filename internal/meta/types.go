// Package meta provides doctype metadata: field descriptors, the metadata
// store, and the cached accessor service consumed by layout resolution and
// list-view settings.
package meta

import "encoding/json"

// Layout-control field types. Fields of these types structure a form but
// carry no data themselves.
const (
	FieldTypeTabBreak     = "Tab Break"
	FieldTypeSectionBreak = "Section Break"
	FieldTypeColumnBreak  = "Column Break"
)

// DocField is the resolved metadata for a single field of a doctype.
// The JSON shape is what form renderers consume; key names are part of
// the wire contract.
type DocField struct {
	Fieldname   string `json:"fieldname"`
	Label       string `json:"label,omitempty"`
	Fieldtype   string `json:"fieldtype"`
	Options     string `json:"options,omitempty"`
	Reqd        bool   `json:"reqd"`
	Default     string `json:"default,omitempty"`
	Permlevel   int    `json:"permlevel"`
	Hidden      bool   `json:"hidden"`
	ReadOnly    bool   `json:"read_only"`
	InListView  bool   `json:"in_list_view"`
	Placeholder string `json:"placeholder,omitempty"`
	Idx         int    `json:"idx"`
}

// IsLayoutField reports whether the field only structures the form.
func (f *DocField) IsLayoutField() bool {
	switch f.Fieldtype {
	case FieldTypeTabBreak, FieldTypeSectionBreak, FieldTypeColumnBreak:
		return true
	}
	return false
}

// Clone returns a copy of the field. Layout resolution annotates descriptors
// per request and must not mutate the stored metadata.
func (f *DocField) Clone() *DocField {
	c := *f
	return &c
}

// AsMap returns the field in its full attribute form, the shape substituted
// into resolved layout columns.
func (f *DocField) AsMap() map[string]any {
	raw, _ := json.Marshal(f)
	var m map[string]any
	_ = json.Unmarshal(raw, &m)
	return m
}

// DocType is the metadata for one entity type: its identity and the ordered
// field descriptor sequence.
type DocType struct {
	Name   string      `json:"name"`
	Module string      `json:"module,omitempty"`
	Label  string      `json:"label,omitempty"`
	Fields []*DocField `json:"fields"`
}

// Field returns the descriptor with the given fieldname, or nil.
func (dt *DocType) Field(fieldname string) *DocField {
	for _, f := range dt.Fields {
		if f.Fieldname == fieldname {
			return f
		}
	}
	return nil
}

// Fieldnames returns all fieldnames in metadata order.
func (dt *DocType) Fieldnames() []string {
	names := make([]string, 0, len(dt.Fields))
	for _, f := range dt.Fields {
		names = append(names, f.Fieldname)
	}
	return names
}

// Clone returns a deep copy of the doctype.
func (dt *DocType) Clone() *DocType {
	c := &DocType{Name: dt.Name, Module: dt.Module, Label: dt.Label}
	c.Fields = make([]*DocField, 0, len(dt.Fields))
	for _, f := range dt.Fields {
		c.Fields = append(c.Fields, f.Clone())
	}
	return c
}

// PermLevelRule grants read/write access to one permission level of a
// doctype. Rules represent the ambient request role; child doctypes without
// rules of their own inherit the parent's.
type PermLevelRule struct {
	Doctype   string `json:"doctype"`
	Permlevel int    `json:"permlevel"`
	CanRead   bool   `json:"can_read"`
	CanWrite  bool   `json:"can_write"`
}
