package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/config"
)

// SMTPMailer sends the account emails. It satisfies services.Mailer.
type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

const activationBody = `<p>Hi %s,</p>
<p>Welcome! Please activate your account by clicking the link below:</p>
<p><a href="%s">Activate my account</a></p>
<p>If you did not register, you can ignore this email.</p>`

const resetBody = `<p>Hi %s,</p>
<p>Your password has been reset. Your new temporary password is:</p>
<p><b>%s</b></p>
<p>Please log in and change it as soon as possible.</p>`

func (m *SMTPMailer) SendActivationEmail(to, username, activationToken string) error {
	link := fmt.Sprintf("%s/api/v1/auth/activate?token=%s", m.cfg.BaseURL, activationToken)
	return m.send(to, "Activate your account", fmt.Sprintf(activationBody, username, link))
}

func (m *SMTPMailer) SendPasswordResetEmail(to, username, newPassword string) error {
	return m.send(to, "Your password has been reset", fmt.Sprintf(resetBody, username, newPassword))
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return dialer.DialAndSend(msg)
}
