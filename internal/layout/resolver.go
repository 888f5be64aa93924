package layout

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/lethang/crmmeta/internal/meta"
)

// Resolver produces the field-layout tree for a (doctype, type) pair.
// Each call builds a fresh working tree, mutates it locally, and returns
// it; nothing is persisted back.
type Resolver struct {
	meta    *meta.Service
	layouts Store
	subs    []Substitution
}

// NewResolver creates a Resolver. Substitution rules are fixed for the
// lifetime of the resolver.
func NewResolver(metaSvc *meta.Service, layouts Store, subs []Substitution) *Resolver {
	return &Resolver{meta: metaSvc, layouts: layouts, subs: subs}
}

// Resolve returns the tab tree for rendering a doctype's edit form.
// parentDoctype is only consulted for permission-level inheritance on
// child-table fields. An unknown doctype surfaces the metadata store's
// not-found error; a missing layout is an empty result, not an error.
func (r *Resolver) Resolve(ctx context.Context, doctype, layoutType, parentDoctype string) ([]*Tab, error) {
	// Step 1: stored layout, else generated default (never for the
	// required-fields category), else empty.
	tabs, err := r.loadTree(ctx, doctype, layoutType)
	if err != nil {
		return nil, err
	}

	// Step 3: hook-declared reference substitutions, before resolution.
	applySubstitutions(tabs, doctype, layoutType, r.subs)

	// Step 4: every reference in the tree is an allowed fieldname.
	allowed := AllFieldnames(tabs)

	// Step 5: doctype metadata restricted to the allowed set.
	dt, err := r.meta.Meta(ctx, doctype)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]*meta.DocField, len(allowed))
	for _, f := range dt.Fields {
		if slices.Contains(allowed, f.Fieldname) {
			fields[f.Fieldname] = f
		}
	}

	// Step 6: required fields with no default, from uncached metadata.
	// Tracked apart from the tree until Step 8.
	var required []*meta.DocField
	if layoutType == TypeRequiredFields {
		fresh, err := r.meta.MetaUncached(ctx, doctype)
		if err != nil {
			return nil, err
		}
		for _, f := range fresh.Fields {
			if f.Reqd && f.Default == "" {
				required = append(required, f)
			}
		}
	}

	readLevels, err := r.meta.PermLevels(ctx, doctype, parentDoctype, meta.PermRead)
	if err != nil {
		return nil, err
	}
	writeLevels, err := r.meta.PermLevels(ctx, doctype, parentDoctype, meta.PermWrite)
	if err != nil {
		return nil, err
	}

	// Step 7: in-place resolution. Empty columns and references are
	// dropped; each surviving reference is swapped for its full
	// descriptor at the same position, or dropped if the doctype does
	// not know it. Fields resolved inline leave the required list;
	// they must not appear twice.
	for _, tab := range tabs {
		tab.Sections = compactSections(tab.Sections)
		for _, section := range tab.Sections {
			if section.Columns == nil {
				continue
			}
			section.Columns = compactColumns(section.Columns)
			for _, column := range section.Columns {
				resolved := make([]FieldEntry, 0, len(column.Fields))
				for _, entry := range column.Fields {
					if entry.Empty() {
						continue
					}
					f, ok := fields[entry.Fieldname()]
					if !ok {
						continue
					}
					desc := f.Clone()
					restrictPermLevel(desc, readLevels, writeLevels)
					resolved = append(resolved, FieldEntry{Field: desc})

					if layoutType == TypeRequiredFields && desc.Reqd {
						required = removeByFieldname(required, desc.Fieldname)
					}
				}
				column.Fields = resolved
			}
		}
	}

	// Step 8: leftover required fields go into one synthetic section at
	// the end of the last tab.
	if layoutType == TypeRequiredFields && len(required) > 0 && len(tabs) > 0 {
		entries := make([]FieldEntry, 0, len(required))
		for _, f := range required {
			entries = append(entries, FieldEntry{Field: f.Clone()})
		}
		last := tabs[len(tabs)-1]
		last.Sections = append(last.Sections, &Section{
			Label:     "Required Fields",
			Name:      "required_fields_section_" + randomSuffix(),
			Opened:    true,
			HideLabel: true,
			Columns: []*Column{{
				Name:   "required_fields_column_" + randomSuffix(),
				Fields: entries,
			}},
		})
	}

	if tabs == nil {
		tabs = []*Tab{}
	}
	return tabs, nil
}

// loadTree performs Steps 1 and 2: load and normalize the working tree.
func (r *Resolver) loadTree(ctx context.Context, doctype, layoutType string) ([]*Tab, error) {
	rec, err := r.layouts.Get(ctx, doctype, layoutType)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if rec != nil && rec.Layout != "" {
		tabs, err := ParseTree([]byte(rec.Layout))
		if err != nil {
			return nil, fmt.Errorf("stored layout %s/%s: %w", doctype, layoutType, err)
		}
		if len(tabs) > 0 {
			return tabs, nil
		}
	}

	if layoutType == TypeRequiredFields {
		return nil, nil
	}

	dt, err := r.meta.Meta(ctx, doctype)
	if err != nil {
		return nil, err
	}
	return WrapSections(BuildDefault(dt)), nil
}

// restrictPermLevel applies permission-level redaction to a descriptor.
// Level 0 fields are governed by base doctype permissions and pass through.
func restrictPermLevel(f *meta.DocField, readLevels, writeLevels []int) {
	if f.Permlevel == 0 {
		return
	}
	hasWrite := slices.Contains(writeLevels, f.Permlevel)
	hasRead := slices.Contains(readLevels, f.Permlevel)
	if !hasWrite && hasRead {
		f.ReadOnly = true
	}
	if !hasRead && !hasWrite {
		f.Hidden = true
	}
}

func compactSections(sections []*Section) []*Section {
	out := sections[:0]
	for _, s := range sections {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func compactColumns(columns []*Column) []*Column {
	out := columns[:0]
	for _, c := range columns {
		if c == nil {
			continue
		}
		if c.Name == "" && len(c.Fields) == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

func removeByFieldname(fields []*meta.DocField, fieldname string) []*meta.DocField {
	out := fields[:0]
	for _, f := range fields {
		if f.Fieldname != fieldname {
			out = append(out, f)
		}
	}
	return out
}
