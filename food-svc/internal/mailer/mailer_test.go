package mailer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"foodhub/food-svc/internal/domain"
	"foodhub/food-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func rendered(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSMTPMailer_SendOTP(t *testing.T) {
	d := &recordingDialer{}
	m := NewSMTPMailerWithDialer(d, "no-reply@foodhub.local", "FoodHub")

	require.NoError(t, m.SendOTP("ana@example.com", "Ana", "123456", service.PurposeReset))
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, d.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"FoodHub - Reset your password"}, d.sent[0].GetHeader("Subject"))
	assert.Contains(t, rendered(t, d.sent[0]), "123456")
}

func TestSMTPMailer_SendOrderConfirmation(t *testing.T) {
	d := &recordingDialer{}
	m := NewSMTPMailerWithDialer(d, "no-reply@foodhub.local", "FoodHub")
	o := &domain.Order{
		OrderNumber: "ORD-XYZ",
		Items:       []domain.OrderItem{{Name: domain.LocalizedText{"en": "Burger"}, Quantity: 2, LineTotal: 23}},
		Subtotal:    23,
		Total:       23,
	}

	require.NoError(t, m.SendOrderConfirmation("ana@example.com", "Ana", o))
	require.Len(t, d.sent, 1)
	assert.True(t, strings.HasSuffix(d.sent[0].GetHeader("Subject")[0], "ORD-XYZ"))
}

func TestSMTPMailer_DialError(t *testing.T) {
	d := &recordingDialer{err: errors.New("connection refused")}
	m := NewSMTPMailerWithDialer(d, "no-reply@foodhub.local", "FoodHub")

	assert.Error(t, m.SendOTP("ana@example.com", "Ana", "123456", service.PurposeVerify))
}
