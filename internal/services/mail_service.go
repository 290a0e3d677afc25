package services

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"gorm.io/gorm"

	"github.com/foyerhq/foyer/backend/internal/logger"
	"github.com/foyerhq/foyer/backend/internal/models"
)

// SMTPConfig holds the SMTP server configuration.
type SMTPConfig struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	FromAddress     string `json:"from_address"`
	Encryption      string `json:"encryption"` // "none", "ssl", "starttls"
	HostEmailDomain string `json:"host_email_domain"`
}

// MailService sends the host-arrival notice over SMTP. Settings live in the
// settings table so the dashboard can manage them.
type MailService struct {
	db *gorm.DB
}

func NewMailService(db *gorm.DB) *MailService {
	return &MailService{db: db}
}

// GetSMTPConfig retrieves SMTP settings from the database.
func (s *MailService) GetSMTPConfig() (*SMTPConfig, error) {
	if s.db == nil {
		return nil, errors.New("settings storage unavailable")
	}

	var settings []models.Setting
	if err := s.db.Where("category = ?", "smtp").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("load SMTP settings: %w", err)
	}

	config := &SMTPConfig{
		Port:            587,
		Encryption:      "starttls",
		HostEmailDomain: "company.com",
	}
	for _, setting := range settings {
		switch setting.Key {
		case "smtp_host":
			config.Host = setting.Value
		case "smtp_port":
			if _, err := fmt.Sscanf(setting.Value, "%d", &config.Port); err != nil {
				config.Port = 587
			}
		case "smtp_username":
			config.Username = setting.Value
		case "smtp_password":
			config.Password = setting.Value
		case "smtp_from_address":
			config.FromAddress = setting.Value
		case "smtp_encryption":
			config.Encryption = setting.Value
		case "smtp_host_email_domain":
			config.HostEmailDomain = setting.Value
		}
	}

	return config, nil
}

// IsConfigured returns true if SMTP is properly configured.
func (s *MailService) IsConfigured() bool {
	config, err := s.GetSMTPConfig()
	if err != nil {
		return false
	}
	return config.Host != "" && config.FromAddress != ""
}

// HostEmail derives the host's mailbox from their display name, e.g.
// "Sarah Johnson" -> "sarah.johnson@company.com".
func HostEmail(hostName, domain string) string {
	local := strings.Join(strings.Fields(strings.ToLower(hostName)), ".")
	return local + "@" + domain
}

var arrivalTemplate = template.Must(template.New("arrival").Parse(`
<h2>Visitor Arrival Notification</h2>
<p><strong>Visitor:</strong> {{.Name}}</p>
<p><strong>Company:</strong> {{.Company}}</p>
<p><strong>Reason:</strong> {{.Reason}}</p>
<p><strong>Arrival Time:</strong> {{.ArrivalTime}}</p>
<p>Please meet your visitor at the reception area.</p>
`))

// SendVisitorArrival emails the host that their visitor has arrived.
func (s *MailService) SendVisitorArrival(v *models.Visitor) error {
	config, err := s.GetSMTPConfig()
	if err != nil {
		return err
	}
	if config.Host == "" || config.FromAddress == "" {
		return errors.New("SMTP not configured")
	}

	company := "Not specified"
	if v.Company != nil && *v.Company != "" {
		company = *v.Company
	}

	var body bytes.Buffer
	if err := arrivalTemplate.Execute(&body, map[string]string{
		"Name":        v.Name,
		"Company":     company,
		"Reason":      v.VisitReason,
		"ArrivalTime": v.SignInTime.Format("Jan 2, 2006 3:04 PM"),
	}); err != nil {
		return fmt.Errorf("render arrival email: %w", err)
	}

	to := HostEmail(v.HostName, config.HostEmailDomain)
	subject := fmt.Sprintf("Visitor Arrival: %s", v.Name)

	logger.WithFields(map[string]interface{}{"to": to, "visitor_id": v.ID}).Info("sending host arrival email")
	return s.send(config, to, subject, body.String())
}

// send delivers one message using the configured encryption mode.
func (s *MailService) send(config *SMTPConfig, to, subject, htmlBody string) error {
	msg := buildEmail(config.FromAddress, to, subject, htmlBody)
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)

	var auth smtp.Auth
	if config.Username != "" && config.Password != "" {
		auth = smtp.PlainAuth("", config.Username, config.Password, config.Host)
	}

	switch config.Encryption {
	case "ssl":
		tlsConfig := &tls.Config{ServerName: config.Host, MinVersion: tls.VersionTLS12}
		conn, err := tls.Dial("tcp", addr, tlsConfig)
		if err != nil {
			return fmt.Errorf("SSL connection failed: %w", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, config.Host)
		if err != nil {
			return fmt.Errorf("create SMTP client: %w", err)
		}
		defer client.Close()
		return transmit(client, auth, config.FromAddress, to, msg)

	case "starttls":
		client, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("SMTP connection failed: %w", err)
		}
		defer client.Close()

		tlsConfig := &tls.Config{ServerName: config.Host, MinVersion: tls.VersionTLS12}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
		return transmit(client, auth, config.FromAddress, to, msg)

	default:
		return smtp.SendMail(addr, auth, config.FromAddress, []string{to}, msg)
	}
}

// transmit runs the SMTP envelope exchange on an established client.
func transmit(client *smtp.Client, auth smtp.Auth, from, to string, msg []byte) error {
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("DATA failed: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data writer: %w", err)
	}
	return client.Quit()
}

// buildEmail constructs a properly formatted email message.
func buildEmail(from, to, subject, htmlBody string) []byte {
	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return msg.Bytes()
}
