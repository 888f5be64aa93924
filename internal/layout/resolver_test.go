package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lethang/crmmeta/internal/meta"
)

func testDeal() *meta.DocType {
	return &meta.DocType{
		Name:   "CRM Deal",
		Module: "crm",
		Fields: []*meta.DocField{
			{Fieldname: "deal_name", Label: "Deal Name", Fieldtype: "Data", Reqd: true, Idx: 1},
			{Fieldname: "deal_value", Label: "Deal Value", Fieldtype: "Currency", Permlevel: 1, Idx: 2},
			{Fieldname: "annual_revenue", Label: "Annual Revenue", Fieldtype: "Currency", Hidden: true, Idx: 3},
			{Fieldname: "status", Label: "Status", Fieldtype: "Select", Reqd: true, Default: "Qualification", Idx: 4},
			{Fieldname: "close_date", Label: "Expected Close", Fieldtype: "Date", Reqd: true, Idx: 5},
		},
	}
}

func newTestResolver(t *testing.T, subs []Substitution) (*Resolver, meta.Store, Store) {
	t.Helper()
	metaStore := meta.NewMemoryStore()
	layouts := NewMemoryStore()

	ctx := context.Background()
	require.NoError(t, metaStore.PutDocType(ctx, testDeal()))
	require.NoError(t, metaStore.PutPermLevelRule(ctx, meta.PermLevelRule{
		Doctype: "CRM Deal", Permlevel: 1, CanRead: true, CanWrite: false,
	}))

	svc := meta.NewService(metaStore, meta.NewMemoryCache())
	return NewResolver(svc, layouts, subs), metaStore, layouts
}

func storeLayout(t *testing.T, layouts Store, doctype, layoutType, tree string) {
	t.Helper()
	err := layouts.Put(context.Background(), &Record{Doctype: doctype, Type: layoutType, Layout: tree})
	require.NoError(t, err)
}

func resolvedNames(tabs []*Tab) []string {
	return AllFieldnames(tabs)
}

func TestResolve_SubstitutionThenResolution(t *testing.T) {
	r, _, layouts := newTestResolver(t, []Substitution{dealValueRule})
	storeLayout(t, layouts, "CRM Deal", TypeDataFields, `[
		{"label": "Details", "name": "s1", "opened": true, "columns": [
			{"name": "c1", "fields": ["deal_name", "annual_revenue", "status"]}
		]}
	]`)

	tabs, err := r.Resolve(context.Background(), "CRM Deal", TypeDataFields, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"deal_name", "deal_value", "status"}, resolvedNames(tabs))
	for _, entry := range tabs[0].Sections[0].Columns[0].Fields {
		require.NotNil(t, entry.Field, "entry %s not resolved", entry.Fieldname())
	}
}

func TestResolve_PermLevelReadOnly(t *testing.T) {
	r, _, layouts := newTestResolver(t, nil)
	storeLayout(t, layouts, "CRM Deal", TypeDataFields, `[
		{"label": "Details", "name": "s1", "columns": [
			{"name": "c1", "fields": ["deal_value"]}
		]}
	]`)

	tabs, err := r.Resolve(context.Background(), "CRM Deal", TypeDataFields, "")
	require.NoError(t, err)

	f := tabs[0].Sections[0].Columns[0].Fields[0].Field
	require.NotNil(t, f)
	assert.True(t, f.ReadOnly)
	assert.False(t, f.Hidden)
}

func TestResolve_PermLevelWithoutAccessHidden(t *testing.T) {
	r, metaStore, layouts := newTestResolver(t, nil)

	dt := testDeal()
	dt.Fields = append(dt.Fields, &meta.DocField{
		Fieldname: "internal_margin", Fieldtype: "Percent", Permlevel: 2, Idx: 6,
	})
	require.NoError(t, metaStore.PutDocType(context.Background(), dt))

	storeLayout(t, layouts, "CRM Deal", TypeDataFields, `[
		{"label": "Details", "name": "s1", "columns": [
			{"name": "c1", "fields": ["internal_margin"]}
		]}
	]`)

	tabs, err := r.Resolve(context.Background(), "CRM Deal", TypeDataFields, "")
	require.NoError(t, err)

	f := tabs[0].Sections[0].Columns[0].Fields[0].Field
	require.NotNil(t, f)
	assert.True(t, f.Hidden)
}

func TestResolve_ParentPermLevelInheritance(t *testing.T) {
	r, metaStore, layouts := newTestResolver(t, nil)

	ctx := context.Background()
	child := &meta.DocType{
		Name: "CRM Deal Line",
		Fields: []*meta.DocField{
			{Fieldname: "amount", Fieldtype: "Currency", Permlevel: 1, Idx: 1},
		},
	}
	require.NoError(t, metaStore.PutDocType(ctx, child))
	storeLayout(t, layouts, "CRM Deal Line", TypeDataFields, `[
		{"label": "Lines", "name": "s1", "columns": [
			{"name": "c1", "fields": ["amount"]}
		]}
	]`)

	// The child has no permission rules of its own; CRM Deal's level-1
	// read rule applies through the parent.
	tabs, err := r.Resolve(ctx, "CRM Deal Line", TypeDataFields, "CRM Deal")
	require.NoError(t, err)

	f := tabs[0].Sections[0].Columns[0].Fields[0].Field
	require.NotNil(t, f)
	assert.True(t, f.ReadOnly)
	assert.False(t, f.Hidden)
}

func TestResolve_UnresolvableRefsDropped(t *testing.T) {
	r, _, layouts := newTestResolver(t, nil)
	storeLayout(t, layouts, "CRM Deal", TypeDataFields, `[
		{"label": "Details", "name": "s1", "columns": [
			{"name": "c1", "fields": ["deal_name", "ghost_field", "", "status"]}
		]}
	]`)

	tabs, err := r.Resolve(context.Background(), "CRM Deal", TypeDataFields, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"deal_name", "status"}, resolvedNames(tabs))
}

func TestResolve_DefaultLayoutWhenNoneStored(t *testing.T) {
	r, _, _ := newTestResolver(t, nil)

	tabs, err := r.Resolve(context.Background(), "CRM Deal", TypeDataFields, "")
	require.NoError(t, err)

	require.Len(t, tabs, 1)
	assert.Equal(t, "first_tab", tabs[0].Name)
	names := resolvedNames(tabs)
	assert.Contains(t, names, "deal_name")
	assert.Contains(t, names, "status")
	assert.NotContains(t, names, "annual_revenue", "hidden fields stay out of generated layouts")
}

func TestResolve_RequiredFieldsInjection(t *testing.T) {
	r, _, layouts := newTestResolver(t, nil)
	storeLayout(t, layouts, "CRM Deal", TypeRequiredFields, `[
		{"label": "Basics", "name": "s1", "columns": [
			{"name": "c1", "fields": ["deal_name"]}
		]}
	]`)

	tabs, err := r.Resolve(context.Background(), "CRM Deal", TypeRequiredFields, "")
	require.NoError(t, err)
	require.Len(t, tabs, 1)

	sections := tabs[0].Sections
	require.Len(t, sections, 2)

	injected := sections[1]
	assert.Equal(t, "Required Fields", injected.Label)
	assert.True(t, injected.Opened)
	assert.True(t, injected.HideLabel)
	require.Len(t, injected.Columns, 1)

	// status has a default and deal_name is already placed; only
	// close_date is left over.
	assert.Equal(t, []string{"close_date"}, columnRefs(injected.Columns[0]))
	assert.Equal(t, []string{"deal_name", "close_date"}, resolvedNames(tabs))
}

func TestResolve_RequiredFieldsWithoutLayoutIsEmpty(t *testing.T) {
	r, _, _ := newTestResolver(t, nil)

	tabs, err := r.Resolve(context.Background(), "CRM Deal", TypeRequiredFields, "")
	require.NoError(t, err)
	require.NotNil(t, tabs)
	assert.Empty(t, tabs)
}

func TestResolve_UnknownDoctype(t *testing.T) {
	r, _, _ := newTestResolver(t, nil)

	_, err := r.Resolve(context.Background(), "No Such Doctype", TypeDataFields, "")
	assert.ErrorIs(t, err, meta.ErrNotFound)
}

func TestResolve_Idempotent(t *testing.T) {
	r, _, layouts := newTestResolver(t, []Substitution{dealValueRule})
	storeLayout(t, layouts, "CRM Deal", TypeDataFields, `[
		{"label": "Details", "name": "s1", "columns": [
			{"name": "c1", "fields": ["deal_name", "annual_revenue", "status"]}
		]}
	]`)

	ctx := context.Background()
	first, err := r.Resolve(ctx, "CRM Deal", TypeDataFields, "")
	require.NoError(t, err)
	second, err := r.Resolve(ctx, "CRM Deal", TypeDataFields, "")
	require.NoError(t, err)

	assert.Equal(t, resolvedNames(first), resolvedNames(second))

	// The stored record is parsed fresh each time, never written back.
	rec, err := layouts.Get(ctx, "CRM Deal", TypeDataFields)
	require.NoError(t, err)
	assert.Contains(t, rec.Layout, "annual_revenue")
}
