package dto

// RegisterClientRequest datos del formulario de cadastro.
type RegisterClientRequest struct {
	Nickname     string `json:"nickname" validate:"required,max=60"`
	Password     string `json:"password" validate:"required,strongpassword"`
	FullName     string `json:"full_name" validate:"required,max=120"`
	Street       string `json:"street" validate:"max=120"`
	Number       string `json:"number" validate:"max=20"`
	District     string `json:"district" validate:"max=80"`
	Municipality string `json:"municipality" validate:"max=80"`
	CPF          string `json:"cpf" validate:"required,cpf"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"max=30"`
	AcceptTerms  bool   `json:"accept_terms" validate:"eq=true"`
}
