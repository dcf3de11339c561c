package entity

import "time"

// Address dirección postal del cliente.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	District     string `json:"district"`
	Municipality string `json:"municipality"`
}

// Client representa un usuario registrado de la aplicación.
// Email se guarda normalizado (trim + minúsculas); Email y CPF son únicos.
type Client struct {
	ID           int64     `json:"id"`
	Nickname     string    `json:"nickname"`
	PasswordHash string    `json:"password_hash"`
	FullName     string    `json:"full_name"`
	Address      Address   `json:"address"`
	CPF          string    `json:"cpf"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	AcceptTerms  bool      `json:"accept_terms"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}
