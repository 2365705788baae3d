// Package notification renders and delivers the account emails of the
// rating system.
package notification

import "fmt"

// Kind identifies the template a Message is rendered with.
type Kind string

const (
	KindRegistrationConfirmation Kind = "registration_confirmation"
	KindPasswordReset            Kind = "password_reset"
	KindSellerApproved           Kind = "seller_approved"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindRegistrationConfirmation, KindPasswordReset, KindSellerApproved:
		return true
	}
	return false
}

// Message is a request to notify a user. Code is empty for kinds that do
// not carry one.
type Message struct {
	Kind      Kind   `json:"kind"`
	Recipient string `json:"recipient"`
	Code      string `json:"code,omitempty"`
}

// Validate checks that the message can be rendered.
func (m Message) Validate() error {
	if !m.Kind.Valid() {
		return fmt.Errorf("unknown notification kind %q", m.Kind)
	}
	if m.Recipient == "" {
		return fmt.Errorf("notification %s: recipient is required", m.Kind)
	}
	if m.Kind != KindSellerApproved && m.Code == "" {
		return fmt.Errorf("notification %s: code is required", m.Kind)
	}
	return nil
}

// Email is a rendered plain-text email.
type Email struct {
	To      string
	Subject string
	Body    string
}
