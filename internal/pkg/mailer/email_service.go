package mailer

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

type ProductInquiry struct {
	ToEmail      string
	ReplyTo      string
	CustomerName string
	ProductName  string
	ProductURL   string
	Message      string
}

type IEmailService interface {
	SendProductInquiry(inquiry ProductInquiry) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func buildInquiryMessage(from, fromName string, inquiry ProductInquiry) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", from, fromName)
	m.SetHeader("To", inquiry.ToEmail)
	m.SetHeader("Reply-To", inquiry.ReplyTo)
	m.SetHeader("Subject", fmt.Sprintf("Product inquiry: %s", inquiry.ProductName))

	paragraphs := strings.Split(html.EscapeString(inquiry.Message), "\n")
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New inquiry about %s</h2>
			<p><strong>From:</strong> %s &lt;%s&gt;</p>
			<p><strong>Product page:</strong> <a href="%s">%s</a></p>
			<hr>
			<p>%s</p>
		</div>
	`,
		html.EscapeString(inquiry.ProductName),
		html.EscapeString(inquiry.CustomerName),
		html.EscapeString(inquiry.ReplyTo),
		html.EscapeString(inquiry.ProductURL),
		html.EscapeString(inquiry.ProductURL),
		strings.Join(paragraphs, "<br>"),
	)

	m.SetBody("text/plain", inquiry.Message)
	m.AddAlternative("text/html", body)
	return m
}

func (s *emailService) SendProductInquiry(inquiry ProductInquiry) error {
	m := buildInquiryMessage(s.senderEmail, s.senderName, inquiry)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send inquiry for %s: %w", inquiry.ProductName, err)
	}
	return nil
}
