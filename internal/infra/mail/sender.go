package mail

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/wizard-sync/internal/entity"
)

var leadTemplate = template.Must(template.New("lead").Parse(`New wizard estimate

Name: {{.Name}}
Email: {{.Email}}
Phone: {{.Phone}}
Company: {{.Company}}
Estimate: ${{.Estimate}}

{{.Note}}
`))

// NewEmailSender sends lead notifications from `from` to every address in to
// through an SMTP relay.
func NewEmailSender(host string, port int, user, password, from string, to []string) *EmailSender {
	return NewEmailSenderWithDialer(gomail.NewDialer(host, port, user, password), from, to)
}

func NewEmailSenderWithDialer(d Dialer, from string, to []string) *EmailSender {
	return &EmailSender{From: from, To: to, dialer: d}
}

// BuildLeadMessage renders the notification for one submission.
func (s *EmailSender) BuildLeadMessage(sub entity.Submission, note string) (*gomail.Message, error) {
	name := strings.TrimSpace(sub.Contact.FullName)
	if name == "" {
		name = sub.Email()
	}

	var body bytes.Buffer
	err := leadTemplate.Execute(&body, LeadEmailData{
		Name:     name,
		Email:    sub.Email(),
		Phone:    sub.Contact.Phone,
		Company:  sub.Contact.CompanyName,
		Estimate: sub.TotalEstimate.String(),
		Note:     note,
	})
	if err != nil {
		return nil, eris.Wrap(err, "mail: render lead template")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To...)
	m.SetHeader("Reply-To", sub.Email())
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s ($%s)", name, sub.TotalEstimate.String()))
	m.SetBody("text/plain", body.String())
	return m, nil
}

// NotifyLead mails the sales inbox. SMTP has no context support, so ctx is
// only checked before dialing.
func (s *EmailSender) NotifyLead(ctx context.Context, sub entity.Submission, note string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := s.BuildLeadMessage(sub, note)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return eris.Wrap(err, "mail: send lead notification")
	}
	return nil
}
