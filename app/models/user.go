package models

// UserProfile is the authenticated customer as the backend reports it after
// an OTP verify or a Google credential exchange.
type UserProfile struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// AuthSession is the result of a successful login: the bearer token the
// storefront attaches to backend calls plus the profile to display.
type AuthSession struct {
	Token   string      `json:"token"`
	Profile UserProfile `json:"profile"`
}
