package auth

// Claims identifica al dueño autenticado. Solo UserID es obligatorio.
type Claims struct {
	UserID   string
	Email    string
	TenantID string
}
