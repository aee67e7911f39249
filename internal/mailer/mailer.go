// Package mailer provides the outbound e-mail collaborator used for
// password-reset dispatch.
package mailer

// Mailer sends a single plain-text message.
// Implementations must return an error on dispatch failure; callers treat a
// failed send as fatal to the surrounding flow.
type Mailer interface {
	Send(to, subject, body string) error
}
