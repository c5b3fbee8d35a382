package notify

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

type MailConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

func (c MailConfig) Enabled() bool {
	return c.Host != "" && len(c.To) > 0
}

func (c MailConfig) Validate() error {
	if c.Host == "" {
		return errors.New("mail host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid mail port %d", c.Port)
	}
	if c.From == "" {
		return errors.New("mail sender is required")
	}
	if len(c.To) == 0 {
		return errors.New("at least one mail recipient is required")
	}
	return nil
}

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mail sends the alert over SMTP. smtp.SendMail upgrades the connection with
// STARTTLS when the server offers it.
type Mail struct {
	common
	cfg  MailConfig
	send sendMailFunc
}

func NewMail(cfg MailConfig, composer *Composer, opts ...Option) *Mail {
	return &Mail{
		common: newCommon(composer, opts),
		cfg:    cfg,
		send:   smtp.SendMail,
	}
}

func (m *Mail) SendNotification() error {
	msg, err := m.composer.Compose()
	if err != nil {
		return fmt.Errorf("compose alert: %w", err)
	}
	raw := m.render(msg)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	err = m.retry("send mail", func() error {
		return m.send(addr, auth, m.cfg.From, m.cfg.To, raw)
	})
	if err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	m.logger.Infof("alert mailed to %s", strings.Join(m.cfg.To, ", "))

	return nil
}

func (m *Mail) render(msg Message) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(m.cfg.To, ", "))
	fmt.Fprintf(&buf, "From: %s\r\n", m.cfg.From)
	fmt.Fprintf(&buf, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", msg.Time.Format("Mon, 02 Jan 2006 15:04:05 -0700"))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))

	return buf.Bytes()
}
