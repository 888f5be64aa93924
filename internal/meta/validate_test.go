package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDefinition_Valid(t *testing.T) {
	raw := []byte(`{
		"name": "CRM Deal",
		"module": "crm",
		"fields": [
			{"fieldname": "deal_name", "fieldtype": "Data", "reqd": true, "idx": 1},
			{"fieldname": "deal_value", "fieldtype": "Currency", "permlevel": 1, "idx": 2}
		]
	}`)
	assert.NoError(t, ValidateDefinition(raw))
}

func TestValidateDefinition_MissingName(t *testing.T) {
	raw := []byte(`{"fields": []}`)
	assert.Error(t, ValidateDefinition(raw))
}

func TestValidateDefinition_BadFieldname(t *testing.T) {
	raw := []byte(`{
		"name": "CRM Deal",
		"fields": [{"fieldname": "Deal Name", "fieldtype": "Data"}]
	}`)
	assert.Error(t, ValidateDefinition(raw))
}

func TestValidateDefinition_MissingFieldtype(t *testing.T) {
	raw := []byte(`{
		"name": "CRM Deal",
		"fields": [{"fieldname": "deal_name"}]
	}`)
	assert.Error(t, ValidateDefinition(raw))
}
