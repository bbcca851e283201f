package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"gopkg.in/gomail.v2"

	"whosnight/config"
)

// Embedded email templates
var inviteTemplate = template.Must(template.New("invite").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #2c3e50; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .button { display: inline-block; padding: 10px 20px; background-color: #28a745; color: #fff; text-decoration: none; border-radius: 5px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>You're invited to join {{.FamilyName}}</h2>
    </div>

    <div class="content">
        <p>Hello,</p>
        <p>{{.InviterName}} invited you to join their family on Who's Night?.</p>
        <p style="text-align: center;"><a class="button" href="{{.InviteLink}}">Accept invitation</a></p>
        <p>This invitation expires on {{.ExpiresAt}}.</p>
    </div>

    <div class="footer">
        <p>If you weren't expecting this invitation, you can safely ignore this email.</p>
        <p>© {{.Year}} Who's Night?. All rights reserved.</p>
    </div>
</body>
</html>`))

// Mailer sends transactional mail for the family workflow. All sends are
// best-effort from the caller's point of view.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendFamilyInvite emails an invitation link to a prospective member.
func (m *Mailer) SendFamilyInvite(to, inviterName, familyName, token string, expiresAt time.Time) error {
	inviteLink := fmt.Sprintf("%s/join?token=%s", config.AppConfig.ClientURL, token)

	var body bytes.Buffer
	err := inviteTemplate.Execute(&body, map[string]interface{}{
		"Subject":     "Family invitation",
		"FamilyName":  familyName,
		"InviterName": inviterName,
		"InviteLink":  inviteLink,
		"ExpiresAt":   expiresAt.Format("January 2, 2006"),
		"Year":        time.Now().Year(),
	})
	if err != nil {
		return fmt.Errorf("failed to render invite template: %w", err)
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", to)
	message.SetHeader("Subject", "You're invited to join a family on Who's Night?")
	message.SetBody("text/html", body.String())

	return m.dialer.DialAndSend(message)
}
