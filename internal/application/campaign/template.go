package campaign

import (
	"fmt"

	"github.com/vendemia/crm-api/internal/domain"
	"github.com/vendemia/crm-api/internal/domain/entity"
)

// ResolveVariables resuelve el valor de cada posición de plantilla para un contacto.
// Los valores ausentes (campo personalizado inexistente, campo fijo desconocido)
// resuelven a cadena vacía, nunca a error: al momento de render la campaña ya fue
// validada y un contacto incompleto no debe tumbar el lote.
func ResolveVariables(mappings []entity.TemplateVariableMapping, c entity.CampaignContactSnapshot) map[int]string {
	out := make(map[int]string, len(mappings))
	for _, m := range mappings {
		switch m.Source {
		case entity.SourceFixedField:
			switch m.Value {
			case entity.FixedFieldNumero:
				out[m.Position] = c.Numero
			case entity.FixedFieldNombre:
				out[m.Position] = c.Nombre
			default:
				out[m.Position] = ""
			}
		case entity.SourceCustomField:
			out[m.Position] = c.Attributes[m.Value]
		case entity.SourceStaticValue:
			out[m.Position] = m.Value
		default:
			out[m.Position] = ""
		}
	}
	return out
}

// ValidateMappings verifica que la campaña esté lista para lanzarse: posiciones
// densas y contiguas 1..N sin duplicados, y valor no vacío donde la fuente lo exige.
// Se invoca ANTES de CreateCampaign (falla rápido, fuera del orquestador).
func ValidateMappings(mappings []entity.TemplateVariableMapping) error {
	if len(mappings) == 0 {
		return &domain.ValidationError{Field: "mappings", Reason: "la plantilla no tiene variables mapeadas"}
	}
	seen := make(map[int]bool, len(mappings))
	for _, m := range mappings {
		if m.Position < 1 || m.Position > len(mappings) {
			return &domain.ValidationError{
				Field:  "mappings",
				Reason: fmt.Sprintf("posición %d fuera del rango 1..%d", m.Position, len(mappings)),
			}
		}
		if seen[m.Position] {
			return &domain.ValidationError{
				Field:  "mappings",
				Reason: fmt.Sprintf("posición %d duplicada", m.Position),
			}
		}
		seen[m.Position] = true

		switch m.Source {
		case entity.SourceFixedField:
			if m.Value != entity.FixedFieldNumero && m.Value != entity.FixedFieldNombre {
				return &domain.ValidationError{
					Field:  "mappings",
					Reason: fmt.Sprintf("posición %d: campo fijo %q no existe", m.Position, m.Value),
				}
			}
		case entity.SourceCustomField:
			if m.Value == "" {
				return &domain.ValidationError{
					Field:  "mappings",
					Reason: fmt.Sprintf("posición %d: el campo personalizado no puede estar vacío", m.Position),
				}
			}
		case entity.SourceStaticValue:
			if m.Value == "" {
				return &domain.ValidationError{
					Field:  "mappings",
					Reason: fmt.Sprintf("posición %d: el valor estático no puede estar vacío", m.Position),
				}
			}
		default:
			return &domain.ValidationError{
				Field:  "mappings",
				Reason: fmt.Sprintf("posición %d: fuente %q desconocida", m.Position, m.Source),
			}
		}
	}
	// seen cubre 1..len sin duplicados ni fuera de rango: las posiciones son densas.
	return nil
}
