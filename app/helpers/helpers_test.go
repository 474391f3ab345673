package helpers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberique/storefront/app/models"
)

func validForm() models.CheckoutForm {
	return models.CheckoutForm{
		FirstName:  "Anna",
		LastName:   "Petrova",
		Email:      "anna@example.com",
		Phone:      "+79991234567",
		PostalCode: "190000",
		City:       "Saint Petersburg",
		Address:    "Nevsky Prospekt 1, apt 5",
		Provider:   "yookassa",
	}
}

func TestCheckoutFormValid(t *testing.T) {
	validate := validator.New()
	require.NoError(t, validate.Struct(validForm()))
}

func TestCheckoutFormFieldErrors(t *testing.T) {
	validate := validator.New()

	form := validForm()
	form.Email = "not-an-email"
	form.Phone = "89991234567"
	form.PostalCode = "1900"
	form.Provider = "paypal"

	err := validate.Struct(form)
	require.Error(t, err)

	errs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	messages := FormatValidationErrors(errs)
	assert.Contains(t, messages["email"], "valid email")
	assert.Contains(t, messages["phone"], "international format")
	assert.Contains(t, messages["postalcode"], "exactly 6")
	assert.Contains(t, messages["provider"], "yookassa tinkoff")
}

func TestCheckoutFormMissingRequired(t *testing.T) {
	validate := validator.New()

	err := validate.Struct(models.CheckoutForm{})
	require.Error(t, err)

	messages := FormatValidationErrors(err.(validator.ValidationErrors))
	assert.Contains(t, messages, "firstname")
	assert.Contains(t, messages, "email")
	assert.Contains(t, messages, "provider")
	assert.NotContains(t, messages, "comment")
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "2 490,00 ₽", FormatPrice(decimal.NewFromInt(2490)))
	assert.Equal(t, "800,00 ₽", FormatPrice(decimal.NewFromInt(800)))
}
