package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/oklog/ulid/v2"
	"github.com/weirdroach/weird-roach-website/storage/db"
)

// Service sends store email over SMTP (Gmail by default, implicit TLS on 465).
type Service struct {
	host     string
	port     int
	username string
	password string
	from     string
	internal string
	queries  *db.Queries
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Internal string
}

func NewService(cfg Config, queries *db.Queries) *Service {
	return &Service{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.User,
		password: cfg.Password,
		from:     cfg.User,
		internal: cfg.Internal,
		queries:  queries,
	}
}

// Email represents one outgoing message. When both bodies are set the
// message is sent as multipart/alternative.
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
	// EntityRef ties the message to an order or session for threading.
	EntityRef string
}

// Send delivers the message. Errors are returned for the caller to log;
// email failure never fails an order (the order is already placed).
func (s *Service) Send(email *Email) error {
	if s.host == "" || s.password == "" || s.from == "" {
		return fmt.Errorf("email service not configured: missing SMTP_HOST, EMAIL_USER, or EMAIL_PASSWORD")
	}
	if len(email.To) == 0 || email.To[0] == "" {
		return fmt.Errorf("no recipient address")
	}

	msg := buildMessage(s.from, email)

	if err := s.send(email.To, msg); err != nil {
		slog.Error("failed to send email", "error", err, "to", email.To)
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("email sent successfully", "to", email.To, "subject", email.Subject)
	return nil
}

const mimeBoundary = "wr-alt-boundary"

func buildMessage(from string, email *Email) []byte {
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: \"Weird Roach Store\" <%s>\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", email.To[0]))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", email.Subject))
	if email.EntityRef != "" {
		msg.WriteString(fmt.Sprintf("X-Entity-Ref-ID: %s\r\n", email.EntityRef))
	}
	msg.WriteString("X-Mailer: Weird Roach Store Mailer\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case email.HTMLBody != "" && email.TextBody != "":
		msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", mimeBoundary))
		msg.WriteString(fmt.Sprintf("--%s\r\n", mimeBoundary))
		msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		msg.WriteString(email.TextBody)
		msg.WriteString(fmt.Sprintf("\r\n--%s\r\n", mimeBoundary))
		msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
		msg.WriteString(email.HTMLBody)
		msg.WriteString(fmt.Sprintf("\r\n--%s--\r\n", mimeBoundary))
	case email.HTMLBody != "":
		msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
		msg.WriteString(email.HTMLBody)
	default:
		msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		msg.WriteString(email.TextBody)
	}

	return msg.Bytes()
}

// send handles both implicit-TLS (465) and STARTTLS (587) submission.
func (s *Service) send(to []string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	if s.port != 465 {
		return smtp.SendMail(addr, auth, s.from, to, msg)
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{
		ServerName: s.host,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("tls dial: %w", err)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("smtp rcpt: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close: %w", err)
	}

	return client.Quit()
}

// logSend records the send in email_log. Best effort.
func (s *Service) logSend(ctx context.Context, recipient, emailType, subject string) {
	if s.queries == nil {
		return
	}
	_, err := s.queries.CreateEmailLog(ctx, db.CreateEmailLogParams{
		ID:             ulid.Make().String(),
		RecipientEmail: recipient,
		EmailType:      emailType,
		Subject:        subject,
	})
	if err != nil {
		slog.Error("failed to log email send", "error", err, "email", recipient, "type", emailType)
	}
}

// FormatCents converts cents to dollar string (e.g., 1234 -> "$12.34")
func FormatCents(cents int64) string {
	dollars := float64(cents) / 100.0
	return fmt.Sprintf("$%.2f", dollars)
}

// SendOrderConfirmation sends the customer's order confirmation email.
func (s *Service) SendOrderConfirmation(ctx context.Context, data *OrderData) error {
	html, err := RenderOrderConfirmation(data)
	if err != nil {
		return err
	}

	subject := "Order Confirmation - Weird Roach Store"
	email := &Email{
		To:        []string{data.CustomerEmail},
		Subject:   subject,
		HTMLBody:  html,
		TextBody:  renderOrderConfirmationText(data),
		EntityRef: data.SessionID,
	}

	if err := s.Send(email); err != nil {
		return err
	}
	s.logSend(ctx, data.CustomerEmail, "order_confirmation", subject)
	return nil
}

// SendOrderFailureToAdmin notifies the internal address that a paid session
// could not be fulfilled. Manual follow-up starts from this message.
func (s *Service) SendOrderFailureToAdmin(ctx context.Context, data *FailureData) error {
	html, err := RenderOrderFailure(data)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Order fulfillment FAILED - session %s", data.SessionID)
	email := &Email{
		To:        []string{s.internal},
		Subject:   subject,
		HTMLBody:  html,
		EntityRef: data.SessionID,
	}

	if err := s.Send(email); err != nil {
		return err
	}
	s.logSend(ctx, s.internal, "order_failure", subject)
	return nil
}

// SendShippingNotification emails the customer when Printful reports
// package_shipped.
func (s *Service) SendShippingNotification(ctx context.Context, data *ShipmentData) error {
	html, err := RenderShippingNotification(data)
	if err != nil {
		return err
	}

	subject := "Your Weird Roach Order Has Shipped!"
	email := &Email{
		To:        []string{data.RecipientEmail},
		Subject:   subject,
		HTMLBody:  html,
		TextBody:  renderShippingNotificationText(data),
		EntityRef: fmt.Sprintf("printful-%d", data.OrderID),
	}

	if err := s.Send(email); err != nil {
		return err
	}
	s.logSend(ctx, data.RecipientEmail, "shipping_notification", subject)
	return nil
}
