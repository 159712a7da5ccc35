package models

// User represents a registered customer account.
//
// Users own invoices (one-to-many). Deleting a user is deliberately not
// supported anywhere in the system: invoices reference their customer and
// purchase history must stay resolvable.
type User struct {
	// ID is the server-assigned identifier. Zero until persisted.
	ID int64 `json:"id"`

	// Username is the login-style handle for the account.
	Username string `json:"username"`

	// Name is the customer's display name. Invoice search by customer
	// name matches against this field.
	Name string `json:"name"`

	// Email is the customer's email address.
	Email string `json:"email"`
}
