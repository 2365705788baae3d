package notification

import (
	"fmt"
	"strings"
)

// Renderer turns messages into emails. Links point at baseURL.
type Renderer struct {
	baseURL string
}

// NewRenderer creates a renderer for the given public base URL.
func NewRenderer(baseURL string) *Renderer {
	return &Renderer{baseURL: strings.TrimRight(baseURL, "/")}
}

// Render builds the email for msg.
func (r *Renderer) Render(msg Message) (*Email, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	email := &Email{To: msg.Recipient}
	switch msg.Kind {
	case KindRegistrationConfirmation:
		email.Subject = "Confirm Your Seller Registration"
		email.Body = fmt.Sprintf(
			"Thank you for registering as a seller.\n\n"+
				"Please confirm your email address by opening the link below:\n%s\n\n"+
				"Your account will become active once it is confirmed.\n",
			r.ConfirmationLink(msg.Code))
	case KindPasswordReset:
		email.Subject = "Password Reset Request"
		email.Body = fmt.Sprintf(
			"We received a request to reset your password.\n\n"+
				"Your reset code is: %s\n\n"+
				"This code will expire in 30 minutes.\n"+
				"If you did not request a password reset, you can ignore this email.\n",
			msg.Code)
	case KindSellerApproved:
		email.Subject = "Seller Account Approved"
		email.Body = "Your seller account has been approved.\n\n" +
			"You can now sign in and start receiving ratings from buyers.\n"
	}
	return email, nil
}

// ConfirmationLink returns the URL that confirms a registration code.
func (r *Renderer) ConfirmationLink(code string) string {
	return r.baseURL + "/api/auth/confirm?code=" + code
}
