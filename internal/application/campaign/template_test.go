package campaign_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vendemia/crm-api/internal/application/campaign"
	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/internal/domain/entity"
)

func snapshot() entity.CampaignContactSnapshot {
	return entity.CampaignContactSnapshot{
		ID:     "c1",
		Nombre: "María Pérez",
		Numero: "+573001112233",
		Attributes: map[string]string{
			"ciudad": "Medellín",
		},
	}
}

func TestResolveVariables_TodasLasFuentes(t *testing.T) {
	mappings := []entity.TemplateVariableMapping{
		{Position: 1, VariableName: "nombre", Source: entity.SourceFixedField, Value: entity.FixedFieldNombre},
		{Position: 2, VariableName: "telefono", Source: entity.SourceFixedField, Value: entity.FixedFieldNumero},
		{Position: 3, VariableName: "ciudad", Source: entity.SourceCustomField, Value: "ciudad"},
		{Position: 4, VariableName: "promo", Source: entity.SourceStaticValue, Value: "2x1"},
	}

	got := campaign.ResolveVariables(mappings, snapshot())

	assert.Equal(t, map[int]string{
		1: "María Pérez",
		2: "+573001112233",
		3: "Medellín",
		4: "2x1",
	}, got)
}

// Un atributo inexistente resuelve a vacío, nunca a error: un contacto incompleto
// no debe tumbar el render del lote.
func TestResolveVariables_AtributoFaltanteVacio(t *testing.T) {
	mappings := []entity.TemplateVariableMapping{
		{Position: 1, VariableName: "cupo", Source: entity.SourceCustomField, Value: "cupo_credito"},
	}

	got := campaign.ResolveVariables(mappings, snapshot())
	assert.Equal(t, "", got[1])
}

// El valor estático ignora por completo al contacto.
func TestResolveVariables_EstaticoIgnoraContacto(t *testing.T) {
	mappings := []entity.TemplateVariableMapping{
		{Position: 1, VariableName: "promo", Source: entity.SourceStaticValue, Value: "hola"},
	}

	got := campaign.ResolveVariables(mappings, entity.CampaignContactSnapshot{})
	assert.Equal(t, "hola", got[1])
}

func TestValidateMappings(t *testing.T) {
	valid := []entity.TemplateVariableMapping{
		{Position: 1, VariableName: "n", Source: entity.SourceFixedField, Value: entity.FixedFieldNombre},
		{Position: 2, VariableName: "p", Source: entity.SourceStaticValue, Value: "x"},
	}
	assert.NoError(t, campaign.ValidateMappings(valid))

	cases := []struct {
		name     string
		mappings []entity.TemplateVariableMapping
	}{
		{"vacío", nil},
		{"posición con hueco (1,3)", []entity.TemplateVariableMapping{
			{Position: 1, Source: entity.SourceStaticValue, Value: "a"},
			{Position: 3, Source: entity.SourceStaticValue, Value: "b"},
		}},
		{"posición duplicada", []entity.TemplateVariableMapping{
			{Position: 1, Source: entity.SourceStaticValue, Value: "a"},
			{Position: 1, Source: entity.SourceStaticValue, Value: "b"},
		}},
		{"posición cero", []entity.TemplateVariableMapping{
			{Position: 0, Source: entity.SourceStaticValue, Value: "a"},
		}},
		{"static_value vacío", []entity.TemplateVariableMapping{
			{Position: 1, Source: entity.SourceStaticValue, Value: ""},
		}},
		{"custom_field vacío", []entity.TemplateVariableMapping{
			{Position: 1, Source: entity.SourceCustomField, Value: ""},
		}},
		{"fixed_field desconocido", []entity.TemplateVariableMapping{
			{Position: 1, Source: entity.SourceFixedField, Value: "apellido"},
		}},
		{"fuente desconocida", []entity.TemplateVariableMapping{
			{Position: 1, Source: "lookup", Value: "x"},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, campaign.ValidateMappings(tc.mappings), domain.ErrValidation)
		})
	}
}
