package mail

import "gopkg.in/gomail.v2"

type LeadEmailData struct {
	Name     string
	Email    string
	Phone    string
	Company  string
	Estimate string
	Note     string
}

// Dialer is the part of *gomail.Dialer the sender needs.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	To     []string
	dialer Dialer
}
