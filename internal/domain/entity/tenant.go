package entity

import "time"

// Tenant representa una organización/cliente del sistema. Todo dato está
// particionado por TenantID; el aislamiento lo hace cumplir TenantGuard.
type Tenant struct {
	ID        string
	Name      string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location (sede) física u organizativa a la que se adscriben
// directores de sede, comerciales y contactos.
type Location struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
}
