package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"foodhub/config"
	"foodhub/food-svc/internal/domain"
	"foodhub/food-svc/internal/service"
	"foodhub/logger"

	"gopkg.in/gomail.v2"
)

var (
	_ service.Mailer = (*SMTPMailer)(nil)
	_ service.Mailer = (*LogMailer)(nil)
)

type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

var otpTemplate = template.Must(template.New("otp").Parse(`<p>Hi {{.Name}},</p>
<p>{{.Intro}}</p>
<p style="font-size:24px;letter-spacing:4px"><strong>{{.Code}}</strong></p>
<p>The code expires soon. If you did not request it, you can ignore this email.</p>
<p>{{.Shop}}</p>`))

var orderTemplate = template.Must(template.New("order").Parse(`<p>Hi {{.Name}},</p>
<p>We received your order <strong>{{.Order.OrderNumber}}</strong>.</p>
<table>
{{range .Order.Items}}<tr><td>{{.Quantity}} × {{index .Name "en"}}</td><td>{{printf "%.2f" .LineTotal}}</td></tr>
{{end}}</table>
<p>Subtotal: {{printf "%.2f" .Order.Subtotal}}<br>
{{if gt .Order.DeliveryFee 0.0}}Delivery: {{printf "%.2f" .Order.DeliveryFee}}<br>{{end}}
{{if gt .Order.Discount 0.0}}Discount: -{{printf "%.2f" .Order.Discount}}<br>{{end}}
<strong>Total: {{printf "%.2f" .Order.Total}}</strong></p>
<p>{{.Shop}}</p>`))

// SMTPMailer sends HTML mail through gomail.
type SMTPMailer struct {
	dialer Dialer
	from   string
	shop   string
}

func NewSMTPMailer(cfg config.SMTPConfig, shop string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		shop:   shop,
	}
}

func NewSMTPMailerWithDialer(d Dialer, from, shop string) *SMTPMailer {
	return &SMTPMailer{dialer: d, from: from, shop: shop}
}

func (m *SMTPMailer) SendOTP(to, name, code, purpose string) error {
	subject, intro := "Verify your email", "Use this code to verify your account:"
	if purpose == service.PurposeReset {
		subject, intro = "Reset your password", "Use this code to reset your password:"
	}

	var body bytes.Buffer
	err := otpTemplate.Execute(&body, map[string]string{
		"Name": name, "Intro": intro, "Code": code, "Shop": m.shop,
	})
	if err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}
	return m.send(to, fmt.Sprintf("%s - %s", m.shop, subject), body.String())
}

func (m *SMTPMailer) SendOrderConfirmation(to, name string, o *domain.Order) error {
	var body bytes.Buffer
	err := orderTemplate.Execute(&body, map[string]any{
		"Name": name, "Order": o, "Shop": m.shop,
	})
	if err != nil {
		return fmt.Errorf("render order email: %w", err)
	}
	return m.send(to, fmt.Sprintf("%s - order %s", m.shop, o.OrderNumber), body.String())
}

func (m *SMTPMailer) send(to, subject, html string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

// LogMailer stands in when SMTP is disabled. It logs the OTP so local
// accounts can still be verified.
type LogMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) *LogMailer {
	return &LogMailer{log: log.Action("mail")}
}

func (m *LogMailer) SendOTP(to, _, code, purpose string) error {
	m.log.Info("otp email skipped", "to", to, "purpose", purpose, "code", code)
	return nil
}

func (m *LogMailer) SendOrderConfirmation(to, _ string, o *domain.Order) error {
	m.log.Info("order email skipped", "to", to, "order_number", o.OrderNumber)
	return nil
}
