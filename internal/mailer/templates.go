package mailer

import (
	"fmt"
	"time"
)

const htmlShell = `<!DOCTYPE html>
<html>
<head>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; }
.container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; }
.header { text-align: center; color: #333; margin-bottom: 20px; }
.otp-code { background-color: #4CAF50; color: white; font-size: 24px; font-weight: bold; padding: 15px; text-align: center; border-radius: 5px; letter-spacing: 6px; }
.footer { margin-top: 20px; font-size: 12px; color: #888; }
</style>
</head>
<body>
<div class="container">
<h2 class="header">%s</h2>
%s
<p class="footer">Facegate - biometric sign-in</p>
</div>
</body>
</html>`

func renderOTP(name, code, heading, instruction string) (html, text string) {
	body := fmt.Sprintf(`<p>Hi %s,</p><p>%s</p><div class="otp-code">%s</div>`,
		name, instruction, code)
	html = fmt.Sprintf(htmlShell, heading, body)

	text = fmt.Sprintf("Hi %s,\n\n%s\n\nYour code: %s\n", name, instruction, code)
	return html, text
}

func renderLoginAlert(name string, lastLogin *time.Time, similarity float64) (html, text string) {
	previous := "This is your first login."
	if lastLogin != nil {
		previous = fmt.Sprintf("Previous login: %s.", lastLogin.Format("January 2, 2006 at 3:04 PM MST"))
	}

	body := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your account was just signed into with face verification (match confidence %.0f%%).</p><p>%s</p><p>If this wasn't you, update your face data and password immediately.</p>`,
		name, similarity*100, previous)
	html = fmt.Sprintf(htmlShell, "New login to your account", body)

	text = fmt.Sprintf(
		"Hi %s,\n\nYour account was just signed into with face verification (match confidence %.0f%%).\n%s\n\nIf this wasn't you, update your face data and password immediately.\n",
		name, similarity*100, previous)
	return html, text
}

func renderAccountDeleted(name string) (html, text string) {
	body := fmt.Sprintf(
		`<p>Hi %s,</p><p>Your account and all associated data, including your face signature, photo, and login history, have been permanently deleted.</p><p>We're sorry to see you go.</p>`,
		name)
	html = fmt.Sprintf(htmlShell, "Your account has been deleted", body)

	text = fmt.Sprintf(
		"Hi %s,\n\nYour account and all associated data, including your face signature, photo, and login history, have been permanently deleted.\n\nWe're sorry to see you go.\n",
		name)
	return html, text
}
