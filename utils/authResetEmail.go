package utils

import (
	"PatientCare/config"
	"strings"

	"gopkg.in/gomail.v2"
)

const resetEmailHTML = `
<!DOCTYPE html>
<html>
<head>
	<title>Password Reset Code</title>
	<style>
		body { font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0; }
		.container { background-color: #ffffff; margin: 20px auto; padding: 20px; border-radius: 8px; max-width: 600px; }
		.code { font-weight: bold; color: #007bff; }
	</style>
</head>
<body>
	<div class="container">
		<h1>Password Reset Code</h1>
		<p>Your PatientCare password reset code is:</p>
		<p class="code">%CODE%</p>
		<p>The code expires in 15 minutes. If you did not request a password reset, please ignore this email.</p>
	</div>
</body>
</html>
`

// Mailer sends password reset codes over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg *config.AppConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.MailFrom,
	}
}

// ResetCodeMessage builds the reset email for the recipient.
func (m *Mailer) ResetCodeMessage(to, code string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset Code")
	msg.SetBody("text/plain", "Your password reset code is: "+code)
	msg.AddAlternative("text/html", strings.Replace(resetEmailHTML, "%CODE%", code, 1))
	return msg
}

func (m *Mailer) SendResetCode(to, code string) error {
	return m.dialer.DialAndSend(m.ResetCodeMessage(to, code))
}
