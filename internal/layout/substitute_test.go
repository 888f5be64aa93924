package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lethang/crmmeta/internal/meta"
)

func dealTree() []*Tab {
	return []*Tab{{
		Name: "first_tab",
		Sections: []*Section{{
			Name: "s1",
			Columns: []*Column{{
				Name:   "c1",
				Fields: []FieldEntry{{Ref: "deal_name"}, {Ref: "annual_revenue"}, {Ref: "status"}},
			}},
		}},
	}}
}

var dealValueRule = Substitution{
	Doctype:    "CRM Deal",
	LayoutType: TypeDataFields,
	From:       "annual_revenue",
	To:         "deal_value",
}

func TestApplySubstitutions_RewritesMatchingRef(t *testing.T) {
	tabs := dealTree()
	applySubstitutions(tabs, "CRM Deal", TypeDataFields, []Substitution{dealValueRule})

	assert.Equal(t, []string{"deal_name", "deal_value", "status"}, AllFieldnames(tabs))
}

func TestApplySubstitutions_OtherDoctypeUntouched(t *testing.T) {
	tabs := dealTree()
	applySubstitutions(tabs, "CRM Lead", TypeDataFields, []Substitution{dealValueRule})

	assert.Equal(t, []string{"deal_name", "annual_revenue", "status"}, AllFieldnames(tabs))
}

func TestApplySubstitutions_OtherLayoutTypeUntouched(t *testing.T) {
	tabs := dealTree()
	applySubstitutions(tabs, "CRM Deal", TypeQuickEntry, []Substitution{dealValueRule})

	assert.Equal(t, []string{"deal_name", "annual_revenue", "status"}, AllFieldnames(tabs))
}

func TestApplySubstitutions_ResolvedEntriesLeftAlone(t *testing.T) {
	tabs := []*Tab{{
		Name: "first_tab",
		Sections: []*Section{{
			Name: "s1",
			Columns: []*Column{{
				Name: "c1",
				Fields: []FieldEntry{
					{Field: &meta.DocField{Fieldname: "annual_revenue", Fieldtype: "Currency"}},
				},
			}},
		}},
	}}

	applySubstitutions(tabs, "CRM Deal", TypeDataFields, []Substitution{dealValueRule})
	assert.Equal(t, "annual_revenue", tabs[0].Sections[0].Columns[0].Fields[0].Fieldname())
}
