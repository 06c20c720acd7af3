package entity

// Roles válidos del personal (claim "role" del JWT).
const (
	RoleAdmin     = "admin"     // dueño / administrador del local
	RoleBartender = "bartender" // barra: ajusta stock y prepara pedidos
	RoleMesero    = "mesero"    // sala: toma y entrega pedidos
)
