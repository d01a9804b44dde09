package mailer

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/engabdalla/portfolio-api/internal/utils"
)

// Placeholder replaces request metadata that was not available
const Placeholder = "N/A"

// Submission is the validated content of a contact form
type Submission struct {
	Name    string
	Email   string
	Service string
	Message string
}

// Meta is request context attached to the outgoing message. Empty
// values render as Placeholder.
type Meta struct {
	IP        string
	UserAgent string
}

func (m Meta) ip() string {
	if m.IP == "" {
		return Placeholder
	}
	return m.IP
}

func (m Meta) userAgent() string {
	if m.UserAgent == "" {
		return Placeholder
	}
	return m.UserAgent
}

// BuildSubject returns the mail subject line
func BuildSubject(s Submission) string {
	return utils.StripCRLF("New Contact: " + s.Service + " - " + s.Name)
}

// BuildPlainText renders the text/plain body
func BuildPlainText(s Submission, m Meta) string {
	return strings.Join([]string{
		"New Contact Submission",
		"Name: " + s.Name,
		"Email: " + s.Email,
		"Service: " + s.Service,
		"",
		s.Message,
		"",
		"IP: " + m.ip() + "  UA: " + m.userAgent(),
	}, "\n")
}

var htmlTemplate = template.Must(template.New("contact").Parse(strings.TrimSpace(`
<div style="margin:0;padding:0;background:#f8fafc;font-family:Inter,system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif;color:#0f172a;">
  <div style="max-width:680px;margin:24px auto;border-radius:16px;border:1px solid #e2e8f0;background:#ffffff;overflow:hidden;">
    <div style="background:linear-gradient(135deg,rgba(56,189,248,0.9),rgba(99,102,241,0.9));padding:18px 22px;">
      <h1 style="margin:0;font-size:18px;line-height:1.4;color:#f8fafc;">New Contact Submission</h1>
      <p style="margin:2px 0 0 0;font-size:13px;color:#e2e8f0;">A new message was submitted from your portfolio contact form.</p>
    </div>
    <div style="padding:20px 24px 8px 24px;">
      <table width="100%" cellpadding="0" cellspacing="0" role="presentation" style="border-collapse:separate;border-spacing:0 10px;">
        <tr><td style="width:120px;padding:0;color:#475569;font-size:13px;">Name</td><td style="padding:0;font-weight:600;">{{.Name}}</td></tr>
        <tr><td style="width:120px;padding:0;color:#475569;font-size:13px;">Email</td><td style="padding:0;"><a href="mailto:{{.Email}}" style="color:#2563eb;text-decoration:none">{{.Email}}</a></td></tr>
        <tr><td style="width:120px;padding:0;color:#475569;font-size:13px;">Service</td><td style="padding:0;">{{.Service}}</td></tr>
      </table>
      <div style="height:1px;background:#e2e8f0;margin:14px 0;"></div>
      <div style="margin:0 0 6px 0;color:#475569;font-size:13px;">Message</div>
      <pre style="white-space:pre-wrap;word-wrap:break-word;line-height:1.65;margin:0;font-family:inherit;font-size:14px;">{{.Message}}</pre>
      <div style="height:1px;background:#e2e8f0;margin:16px 0;"></div>
      <p style="margin:0 0 18px 0;color:#64748b;font-size:12px;">IP: {{.IP}} &bull; UA: {{.UserAgent}}</p>
    </div>
  </div>
</div>
`)))

type htmlData struct {
	Name      string
	Email     string
	Service   string
	Message   string
	IP        string
	UserAgent string
}

// BuildHTML renders the text/html body. Every submitted value is escaped
// by html/template according to where it appears.
func BuildHTML(s Submission, m Meta) (string, error) {
	var buf bytes.Buffer
	err := htmlTemplate.Execute(&buf, htmlData{
		Name:      s.Name,
		Email:     s.Email,
		Service:   s.Service,
		Message:   s.Message,
		IP:        m.ip(),
		UserAgent: m.userAgent(),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Compose builds the full outgoing message for a submission
func Compose(to, from string, s Submission, m Meta) (Message, error) {
	html, err := BuildHTML(s, m)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		From:    from,
		ReplyTo: s.Email,
		Subject: BuildSubject(s),
		Text:    BuildPlainText(s, m),
		HTML:    html,
	}, nil
}
