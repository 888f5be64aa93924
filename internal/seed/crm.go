// Package seed provides demo CRM doctypes, permission rules and stored
// layouts for local development.
package seed

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lethang/crmmeta/internal/layout"
	"github.com/lethang/crmmeta/internal/meta"
)

// Seed populates the metadata store with the CRM Lead and CRM Deal
// doctypes, their permission-level rules, and a stored Data Fields layout
// for CRM Deal. If any doctypes already exist, seeding is skipped.
func Seed(ctx context.Context, metaStore meta.Store, layouts layout.Store) error {
	names, err := metaStore.ListDocTypes(ctx)
	if err != nil {
		return fmt.Errorf("checking doctypes: %w", err)
	}
	if len(names) > 0 {
		log.Info("doctypes already seeded, skipping", "count", len(names))
		return nil
	}

	for _, dt := range []*meta.DocType{crmLead(), crmDeal(), crmOrganization()} {
		if err := metaStore.PutDocType(ctx, dt); err != nil {
			return fmt.Errorf("seeding doctype %s: %w", dt.Name, err)
		}
	}

	rules := []meta.PermLevelRule{
		// Deal value is restricted to managers; everyone else reads it.
		{Doctype: "CRM Deal", Permlevel: 1, CanRead: true, CanWrite: false},
		// Internal scoring is fully hidden below admin.
		{Doctype: "CRM Lead", Permlevel: 2, CanRead: false, CanWrite: false},
	}
	for _, r := range rules {
		if err := metaStore.PutPermLevelRule(ctx, r); err != nil {
			return fmt.Errorf("seeding permlevel rule for %s: %w", r.Doctype, err)
		}
	}

	// A stored Data Fields layout for CRM Deal. It still references the
	// legacy annual_revenue field; the substitution hook repoints it at
	// deal_value during resolution.
	dealLayout := `[
  {
    "label": "Details",
    "name": "details_section",
    "opened": true,
    "columns": [
      {"name": "details_column", "fields": ["deal_name", "annual_revenue", "status"]}
    ]
  },
  {
    "label": "Contacts",
    "name": "contacts_section",
    "opened": false,
    "columns": [
      {"name": "contacts_column", "fields": ["organization", "email", "mobile_no"]}
    ]
  }
]`
	rec := &layout.Record{Doctype: "CRM Deal", Type: layout.TypeDataFields, Layout: dealLayout}
	if err := layouts.Put(ctx, rec); err != nil {
		return fmt.Errorf("seeding CRM Deal layout: %w", err)
	}

	log.Info("seeded demo data", "doctypes", 3, "permlevel_rules", len(rules), "layouts", 1)
	return nil
}

func crmLead() *meta.DocType {
	return &meta.DocType{
		Name:   "CRM Lead",
		Module: "crm",
		Label:  "Lead",
		Fields: []*meta.DocField{
			{Fieldname: "details_tab", Label: "Details", Fieldtype: meta.FieldTypeTabBreak, Idx: 1},
			{Fieldname: "lead_section", Label: "Lead", Fieldtype: meta.FieldTypeSectionBreak, Idx: 2},
			{Fieldname: "lead_name", Label: "Lead Name", Fieldtype: "Data", Reqd: true, InListView: true, Idx: 3},
			{Fieldname: "first_name", Label: "First Name", Fieldtype: "Data", Idx: 4},
			{Fieldname: "last_name", Label: "Last Name", Fieldtype: "Data", Idx: 5},
			{Fieldname: "lead_col_1", Fieldtype: meta.FieldTypeColumnBreak, Idx: 6},
			{Fieldname: "status", Label: "Status", Fieldtype: "Select", Options: "New\nContacted\nNurture\nQualified\nUnqualified\nJunk", Reqd: true, Default: "New", InListView: true, Idx: 7},
			{Fieldname: "lead_owner", Label: "Lead Owner", Fieldtype: "Link", Options: "User", Idx: 8},
			{Fieldname: "contact_section", Label: "Contact", Fieldtype: meta.FieldTypeSectionBreak, Idx: 9},
			{Fieldname: "organization", Label: "Organization", Fieldtype: "Link", Options: "CRM Organization", InListView: true, Idx: 10},
			{Fieldname: "email", Label: "Email", Fieldtype: "Data", Options: "Email", InListView: true, Idx: 11},
			{Fieldname: "mobile_no", Label: "Mobile No", Fieldtype: "Data", Options: "Phone", Idx: 12},
			{Fieldname: "website", Label: "Website", Fieldtype: "Data", Options: "URL", Idx: 13},
			{Fieldname: "internal_score", Label: "Internal Score", Fieldtype: "Int", Permlevel: 2, Idx: 14},
			{Fieldname: "no_of_employees", Label: "No. of Employees", Fieldtype: "Select", Options: "1-10\n11-50\n51-200\n201-500\n500+", Idx: 15},
		},
	}
}

func crmDeal() *meta.DocType {
	return &meta.DocType{
		Name:   "CRM Deal",
		Module: "crm",
		Label:  "Deal",
		Fields: []*meta.DocField{
			{Fieldname: "overview_tab", Label: "Overview", Fieldtype: meta.FieldTypeTabBreak, Idx: 1},
			{Fieldname: "deal_section", Label: "Deal", Fieldtype: meta.FieldTypeSectionBreak, Idx: 2},
			{Fieldname: "deal_name", Label: "Deal Name", Fieldtype: "Data", Reqd: true, InListView: true, Idx: 3},
			{Fieldname: "deal_value", Label: "Deal Value", Fieldtype: "Currency", Permlevel: 1, InListView: true, Idx: 4},
			// Kept for stored layouts that predate the deal_value rename.
			{Fieldname: "annual_revenue", Label: "Annual Revenue", Fieldtype: "Currency", Hidden: true, Idx: 5},
			{Fieldname: "deal_col_1", Fieldtype: meta.FieldTypeColumnBreak, Idx: 6},
			{Fieldname: "status", Label: "Status", Fieldtype: "Select", Options: "Qualification\nDemo\nProposal\nNegotiation\nWon\nLost", Reqd: true, Default: "Qualification", InListView: true, Idx: 7},
			{Fieldname: "probability", Label: "Probability", Fieldtype: "Percent", Idx: 8},
			{Fieldname: "close_date", Label: "Expected Close", Fieldtype: "Date", Reqd: true, Idx: 9},
			{Fieldname: "contact_section", Label: "Contact", Fieldtype: meta.FieldTypeSectionBreak, Idx: 10},
			{Fieldname: "organization", Label: "Organization", Fieldtype: "Link", Options: "CRM Organization", InListView: true, Idx: 11},
			{Fieldname: "email", Label: "Email", Fieldtype: "Data", Options: "Email", Idx: 12},
			{Fieldname: "mobile_no", Label: "Mobile No", Fieldtype: "Data", Options: "Phone", Idx: 13},
		},
	}
}

func crmOrganization() *meta.DocType {
	return &meta.DocType{
		Name:   "CRM Organization",
		Module: "crm",
		Label:  "Organization",
		Fields: []*meta.DocField{
			{Fieldname: "organization_name", Label: "Organization Name", Fieldtype: "Data", Reqd: true, InListView: true, Idx: 1},
			{Fieldname: "website", Label: "Website", Fieldtype: "Data", Options: "URL", InListView: true, Idx: 2},
			{Fieldname: "industry", Label: "Industry", Fieldtype: "Data", Idx: 3},
			{Fieldname: "annual_revenue", Label: "Annual Revenue", Fieldtype: "Currency", Idx: 4},
		},
	}
}
