package service

import (
	"bitwise74/movie-list/config"
	"fmt"
	"html"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

// MailSender delivers a message once. It never returns an error, the
// result only tells the caller what to say to the user
type MailSender interface {
	Send(m Message) bool
}

type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewMailer(c config.MailConfig) *Mailer {
	return &Mailer{
		from:   c.SenderAddress,
		dialer: gomail.NewDialer(c.Host, c.Port, c.SenderAddress, c.Password),
	}
}

func (m *Mailer) Send(msg Message) bool {
	if m.dialer.Host == "" || m.from == "" {
		zap.L().Warn("Mail is not configured, dropping message", zap.String("subject", msg.Subject))
		return false
	}

	if msg.To == "" {
		zap.L().Warn("Refusing to send mail without a recipient", zap.String("subject", msg.Subject))
		return false
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		gm.SetHeader("Reply-To", msg.ReplyTo)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(gm); err != nil {
		zap.L().Error("Failed to send mail", zap.Error(err), zap.String("subject", msg.Subject))
		return false
	}

	return true
}

// ResetMail is sent when somebody asks to reset the password of an account
func ResetMail(to, name, link string, validFor int) Message {
	return Message{
		To:      to,
		Subject: "Reset your password",
		HTML: fmt.Sprintf("Hi %s,<br><br>Click <a href='%s'>here</a> to choose a new password.<br><br>This link will expire in %d minutes. If you didn't ask for this you can ignore this mail.",
			html.EscapeString(name), html.EscapeString(link), validFor),
	}
}

// ContactMail forwards a contact form submission to the site owner
func ContactMail(to, name, email, phone, message string) Message {
	return Message{
		To:      to,
		ReplyTo: email,
		Subject: "New message from " + name,
		HTML: fmt.Sprintf("<b>Name:</b> %s<br><b>Email:</b> %s<br><b>Phone:</b> %s<br><br>%s",
			html.EscapeString(name), html.EscapeString(email), html.EscapeString(phone), html.EscapeString(message)),
	}
}
