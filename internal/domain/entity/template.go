package entity

// Fuentes de valor para una variable de plantilla.
const (
	SourceFixedField  = "fixed_field"  // Value es "numero" o "nombre"
	SourceCustomField = "custom_field" // Value es el nombre del atributo personalizado
	SourceStaticValue = "static_value" // Value es el literal configurado
)

// Campos fijos del snapshot referenciables desde fixed_field.
const (
	FixedFieldNumero = "numero"
	FixedFieldNombre = "nombre"
)

// TemplateVariableMapping asigna a cada posición de la plantilla (1..N, contiguas)
// la fuente de su valor por contacto.
type TemplateVariableMapping struct {
	Position     int    `json:"position"`
	VariableName string `json:"variable_name"`
	Source       string `json:"source"`
	Value        string `json:"value"`
}
