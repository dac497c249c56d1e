package accounts

import "log"

// LogMailer writes verification codes to the application log instead of
// delivering email. Used until an actual mail transport is wired in by
// the deployment.
type LogMailer struct{}

func (LogMailer) SendVerification(email, name, code string) error {
	log.Printf("[accounts] verification code for %s (%s): %s", email, name, code)
	return nil
}
