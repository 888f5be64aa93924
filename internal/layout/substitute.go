package layout

// Substitution replaces one bare field reference with another before
// resolution, for a single (doctype, layout type) pair. Rules come from the
// hooks declaration and are bound once at startup; the shipped configuration
// carries exactly one, mapping the legacy annual_revenue reference on CRM
// Deal data layouts to deal_value.
type Substitution struct {
	Doctype    string
	LayoutType string
	From       string
	To         string
}

// Matches reports whether the rule applies to the given pair.
func (s Substitution) Matches(doctype, layoutType string) bool {
	return s.Doctype == doctype && s.LayoutType == layoutType
}

// applySubstitutions rewrites matching bare references in place, preserving
// order and position. Already-resolved entries are left alone; the rule is
// a literal find-and-replace on reference strings.
func applySubstitutions(tabs []*Tab, doctype, layoutType string, rules []Substitution) {
	var active []Substitution
	for _, rule := range rules {
		if rule.Matches(doctype, layoutType) {
			active = append(active, rule)
		}
	}
	if len(active) == 0 {
		return
	}

	for _, tab := range tabs {
		for _, section := range tab.Sections {
			if section == nil {
				continue
			}
			for _, column := range section.Columns {
				if column == nil {
					continue
				}
				for i, entry := range column.Fields {
					if entry.Field != nil {
						continue
					}
					for _, rule := range active {
						if entry.Ref == rule.From {
							column.Fields[i].Ref = rule.To
							break
						}
					}
				}
			}
		}
	}
}
