// Package hierarchy concentra la jerarquía comercial en una sola tabla de rangos.
// Toda comparación de rangos del sistema pasa por aquí: no deben existir tablas
// ad hoc en handlers ni en la capa de persistencia.
package hierarchy

// Role rol comercial. Un usuario sin rol comercial (nil) es dueño/admin del tenant:
// sin restricción y, a efectos de jerarquía, el más poderoso.
type Role string

const (
	DirectorComercialGeneral Role = "director_comercial_general"
	DirectorSede             Role = "director_sede"
	Comercial                Role = "comercial"
)

// Rangos: menor = más poder. Ausencia de rol = 0.
const (
	RankSinRol                   = 0
	RankDirectorComercialGeneral = 1
	RankDirectorSede             = 2
	RankComercial                = 3

	// rankDesconocido centinela para strings de rol no reconocidos: tan alto que
	// nadie puede gestionarlo ni él gestionar a nadie (falla cerrado).
	rankDesconocido = 1 << 10
)

var rankTable = map[Role]int{
	DirectorComercialGeneral: RankDirectorComercialGeneral,
	DirectorSede:             RankDirectorSede,
	Comercial:                RankComercial,
}

// Valid reporta si el string corresponde a un rol comercial conocido.
func Valid(r Role) bool {
	_, ok := rankTable[r]
	return ok
}

// Rank devuelve el rango del rol. nil (sin rol comercial) es el rango más bajo;
// un rol desconocido recibe el centinela alto.
func Rank(r *Role) int {
	if r == nil {
		return RankSinRol
	}
	if rank, ok := rankTable[*r]; ok {
		return rank
	}
	return rankDesconocido
}

// CanManage reporta si un actor con actorRank puede gestionar a un objetivo.
// targetRank nil significa "todavía sin cuenta" (invitación nueva): gestionable.
// Un objetivo de rango igual o menor (más poderoso) nunca es gestionable: esto
// bloquea escaladas laterales y hacia arriba.
func CanManage(actorRank int, targetRank *int) bool {
	if targetRank == nil {
		return true
	}
	return *targetRank > actorRank
}

// AssignableRoles devuelve los roles que un actor puede ofrecer en un selector:
// solo los de rango estrictamente mayor que el suyo.
func AssignableRoles(actorRank int) []Role {
	ordered := []Role{DirectorComercialGeneral, DirectorSede, Comercial}
	var out []Role
	for _, r := range ordered {
		if rankTable[r] > actorRank {
			out = append(out, r)
		}
	}
	return out
}
