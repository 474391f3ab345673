package helpers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

type contextKey string

const (
	ContextKeyUserID    contextKey = "userID"
	ContextKeyAuthToken contextKey = "authToken"
	ContextKeySessionID contextKey = "sessionID"
)

var rubles = accounting.Accounting{Symbol: "₽", Precision: 2, Thousand: " ", Decimal: ",", Format: "%v %s"}

// FormatPrice renders a decimal amount the way product pages display it,
// e.g. "2 490,00 ₽".
func FormatPrice(amount decimal.Decimal) string {
	return rubles.FormatMoneyDecimal(amount)
}

// AuthTokenFromContext returns the bearer token placed by the session
// middleware, or an empty string for an anonymous visitor.
func AuthTokenFromContext(ctx context.Context) string {
	if token, ok := ctx.Value(ContextKeyAuthToken).(string); ok {
		return token
	}
	return ""
}

// UserIDFromContext returns the logged-in user's id, or an empty string for
// an anonymous visitor.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyUserID).(string); ok {
		return id
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeySessionID).(string); ok {
		return id
	}
	return ""
}

func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextKeyAuthToken, token)
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKeySessionID, id)
}

// FormatValidationErrors converts validator errors into a per-field message
// map suitable for inline display.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", err.Field())
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", err.Field())
		case "e164":
			errorMessages[field] = fmt.Sprintf("%s must be a phone number in international format.", err.Field())
		case "numeric":
			errorMessages[field] = fmt.Sprintf("%s must contain digits only.", err.Field())
		case "len":
			errorMessages[field] = fmt.Sprintf("%s must be exactly %s characters.", err.Field(), err.Param())
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s characters.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s characters.", err.Field(), err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("%s must be one of: %s.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed %s validation.", err.Field(), err.Tag())
		}
	}
	return errorMessages
}
