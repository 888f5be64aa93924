package layout

import (
	"github.com/lethang/crmmeta/internal/meta"
)

// BuildDefault generates a layout from doctype metadata alone, used when no
// stored layout exists. Section Break fields open a new section, Column
// Break fields a new column; every other visible data field becomes a bare
// reference in the current column. Tab Break fields are treated as section
// breaks; the resolver wraps the flat section list into the synthetic
// first tab.
func BuildDefault(dt *meta.DocType) []*Section {
	var (
		sections []*Section
		section  *Section
		column   *Column
	)

	flush := func() {
		if section == nil {
			return
		}
		if column != nil && len(column.Fields) > 0 {
			section.Columns = append(section.Columns, column)
		}
		if len(section.Columns) > 0 {
			sections = append(sections, section)
		}
		section = nil
		column = nil
	}

	newSection := func(f *meta.DocField) {
		flush()
		section = &Section{
			Label:  f.Label,
			Name:   "section_" + f.Fieldname,
			Opened: true,
		}
		column = &Column{Name: "column_" + f.Fieldname}
	}

	for _, f := range dt.Fields {
		switch f.Fieldtype {
		case meta.FieldTypeTabBreak, meta.FieldTypeSectionBreak:
			newSection(f)
		case meta.FieldTypeColumnBreak:
			if section == nil {
				continue
			}
			if column != nil && len(column.Fields) > 0 {
				section.Columns = append(section.Columns, column)
			}
			column = &Column{Name: "column_" + f.Fieldname}
		default:
			if f.Hidden {
				continue
			}
			if section == nil {
				// Fields before the first explicit break land in a
				// generated opening section.
				section = &Section{
					Name:   "section_" + randomSuffix(),
					Opened: true,
				}
				column = &Column{Name: "column_" + randomSuffix()}
			}
			column.Fields = append(column.Fields, FieldEntry{Ref: f.Fieldname})
		}
	}
	flush()

	return sections
}
