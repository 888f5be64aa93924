package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lethang/crmmeta/internal/meta"
)

func field(name, fieldtype string) *meta.DocField {
	return &meta.DocField{Fieldname: name, Fieldtype: fieldtype}
}

func TestBuildDefault_SectionAndColumnBreaks(t *testing.T) {
	dt := &meta.DocType{
		Name: "CRM Deal",
		Fields: []*meta.DocField{
			{Fieldname: "deal_section", Label: "Deal", Fieldtype: meta.FieldTypeSectionBreak},
			field("deal_name", "Data"),
			field("col_1", meta.FieldTypeColumnBreak),
			field("status", "Select"),
			{Fieldname: "contact_section", Label: "Contact", Fieldtype: meta.FieldTypeSectionBreak},
			field("email", "Data"),
		},
	}

	sections := BuildDefault(dt)
	require.Len(t, sections, 2)

	assert.Equal(t, "Deal", sections[0].Label)
	assert.Equal(t, "section_deal_section", sections[0].Name)
	assert.True(t, sections[0].Opened)
	require.Len(t, sections[0].Columns, 2)
	assert.Equal(t, []string{"deal_name"}, columnRefs(sections[0].Columns[0]))
	assert.Equal(t, []string{"status"}, columnRefs(sections[0].Columns[1]))

	assert.Equal(t, "Contact", sections[1].Label)
	assert.Equal(t, []string{"email"}, columnRefs(sections[1].Columns[0]))
}

func TestBuildDefault_TabBreakStartsSection(t *testing.T) {
	dt := &meta.DocType{
		Name: "CRM Lead",
		Fields: []*meta.DocField{
			{Fieldname: "details_tab", Label: "Details", Fieldtype: meta.FieldTypeTabBreak},
			field("lead_name", "Data"),
		},
	}

	sections := BuildDefault(dt)
	require.Len(t, sections, 1)
	assert.Equal(t, "section_details_tab", sections[0].Name)
	assert.Equal(t, []string{"lead_name"}, columnRefs(sections[0].Columns[0]))
}

func TestBuildDefault_ImplicitOpeningSection(t *testing.T) {
	dt := &meta.DocType{
		Name: "CRM Organization",
		Fields: []*meta.DocField{
			field("organization_name", "Data"),
			field("website", "Data"),
		},
	}

	sections := BuildDefault(dt)
	require.Len(t, sections, 1)
	assert.True(t, sections[0].Opened)
	assert.NotEmpty(t, sections[0].Name)
	assert.Equal(t, []string{"organization_name", "website"}, columnRefs(sections[0].Columns[0]))
}

func TestBuildDefault_SkipsHiddenAndEmptySections(t *testing.T) {
	dt := &meta.DocType{
		Name: "CRM Deal",
		Fields: []*meta.DocField{
			{Fieldname: "s1", Fieldtype: meta.FieldTypeSectionBreak},
			{Fieldname: "secret", Fieldtype: "Data", Hidden: true},
			{Fieldname: "s2", Fieldtype: meta.FieldTypeSectionBreak},
			field("visible", "Data"),
		},
	}

	sections := BuildDefault(dt)
	require.Len(t, sections, 1)
	assert.Equal(t, "section_s2", sections[0].Name)
}

func TestBuildDefault_NoFields(t *testing.T) {
	assert.Empty(t, BuildDefault(&meta.DocType{Name: "Empty"}))
}

func columnRefs(c *Column) []string {
	refs := make([]string, 0, len(c.Fields))
	for _, e := range c.Fields {
		refs = append(refs, e.Fieldname())
	}
	return refs
}
