package utils

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/smtp"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adityaS-123/Amnex-Food-Coupon-Management-System/config"
)

// SendMail sends an email using SMTP settings from config. contentType is
// either "text/plain" or "text/html".
func SendMail(to, subject, body, contentType string) error {
	cfg := config.Get()
	if cfg.SMTPHost == "" || cfg.SMTPFrom == "" {
		return fmt.Errorf("smtp not configured")
	}
	if contentType == "" {
		contentType = "text/plain"
	}
	addr := net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort))
	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)

	fromName := cfg.SMTPFromName
	if fromName == "" {
		fromName = "AMNEX Food Services"
	}
	fromHeader := fmt.Sprintf("%s <%s>", encodeRFC2047(fromName), cfg.SMTPFrom)

	headers := map[string]string{
		"From":         fromHeader,
		"To":           to,
		"Subject":      encodeRFC2047(subject),
		"MIME-Version": "1.0",
		"Content-Type": contentType + "; charset=UTF-8",
	}
	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if cfg.SMTPTLS {
		// STARTTLS with timeouts
		d := net.Dialer{Timeout: 5 * time.Second}
		conn, err := d.Dial("tcp", addr)
		if err != nil {
			return err
		}
		_ = conn.SetDeadline(time.Now().Add(15 * time.Second))
		host, _, _ := net.SplitHostPort(addr)
		c, err := smtp.NewClient(conn, host)
		if err != nil {
			_ = conn.Close()
			return err
		}
		defer c.Close()
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
				return err
			}
		}
		if cfg.SMTPUsername != "" {
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
		if err := c.Mail(cfg.SMTPFrom); err != nil {
			return err
		}
		if err := c.Rcpt(to); err != nil {
			return err
		}
		wc, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := wc.Write([]byte(msg.String())); err != nil {
			_ = wc.Close()
			return err
		}
		return wc.Close()
	}

	// Plain SMTP without TLS (not recommended)
	return smtp.SendMail(addr, auth, cfg.SMTPFrom, []string{to}, []byte(msg.String()))
}

// SendCouponMail delivers a freshly issued (or replayed) coupon to the
// employee. Failures are the caller's to log; issuance never rolls back on a
// mail error.
func SendCouponMail(to, employeeName, couponCode string, issuedAt time.Time) error {
	cfg := config.Get()
	scanURL := strings.TrimRight(cfg.BaseURL, "/") + "/scan-qr?code=" + url.QueryEscape(couponCode) + "&auto=true"
	dateLabel := issuedAt.Format("January 2, 2006")

	subject := fmt.Sprintf("AMNEX Food Coupon - %s (%s)", couponCode, dateLabel)
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #ffffff; border-radius: 10px; overflow: hidden;">
    <div style="background: #8B4513; color: #ffffff; padding: 24px; text-align: center;">
      <h1 style="margin: 0;">AMNEX Food Coupon</h1>
      <p>Your daily meal coupon is ready!</p>
    </div>
    <div style="padding: 24px;">
      <h2>Hello %s,</h2>
      <p>Your food coupon for <strong>%s</strong> has been generated successfully.</p>
      <div style="background: #FFD166; color: #8B4513; font-size: 24px; font-weight: bold; padding: 15px; border-radius: 8px; text-align: center; font-family: 'Courier New', monospace;">%s</div>
      <p style="margin-top: 20px;">Mark your attendance at the cafeteria by opening this link (it is what the QR code points to):</p>
      <p style="text-align: center;"><a href="%s">%s</a></p>
      <ul>
        <li>This coupon is valid only for today's meal service</li>
        <li>Present this coupon at the cafeteria</li>
        <li>Keep this email for your records</li>
      </ul>
    </div>
    <div style="background: #FFF8E1; padding: 16px; text-align: center; color: #8B4513;">
      <p>Generated on: %s</p>
    </div>
  </div>
</body>
</html>`, htmlEscape(displayName(employeeName, to)), dateLabel, couponCode, scanURL, scanURL, issuedAt.Format("2006-01-02 15:04:05"))

	return SendMail(to, subject, body, "text/html")
}

func displayName(name, fallback string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return fallback
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

// encodeRFC2047 encodes a string for non-ASCII mail headers.
func encodeRFC2047(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 128 {
			return fmt.Sprintf("=?UTF-8?B?%s?=", base64.StdEncoding.EncodeToString([]byte(s)))
		}
	}
	return s
}
