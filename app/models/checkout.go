package models

// CheckoutForm carries the delivery details a customer submits. It is
// validated client-side before anything is sent to the backend; field
// errors are surfaced inline per field.
type CheckoutForm struct {
	FirstName  string `json:"first_name" validate:"required,max=100"`
	LastName   string `json:"last_name" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,e164"`
	PostalCode string `json:"postal_code" validate:"required,numeric,len=6"`
	City       string `json:"city" validate:"required,max=100"`
	Address    string `json:"address" validate:"required,min=5,max=255"`
	Comment    string `json:"comment" validate:"max=500"`
	Provider   string `json:"provider" validate:"required,oneof=yookassa tinkoff"`
	UsePoints  bool   `json:"use_points"`
}
