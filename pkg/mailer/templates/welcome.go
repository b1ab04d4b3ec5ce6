package templates

import (
	"bytes"
	"html/template"
)

const welcomeSubject = "Welcome to Carsphere"

var welcomeHTML = template.Must(template.New("welcome").Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Welcome, {{.Name}}!</h2>
  <p>Your Carsphere account is ready. Log in with your email address to
  browse the catalog and manage listings.</p>
  <p style="color: #888; font-size: 12px;">If you did not create this
  account, you can ignore this email.</p>
</body>
</html>`))

// RenderWelcome renders the welcome email for a newly registered user and
// returns subject, text fallback, and HTML body.
func RenderWelcome(name string) (subject, text, html string, err error) {
	var buf bytes.Buffer
	if err = welcomeHTML.Execute(&buf, struct{ Name string }{Name: name}); err != nil {
		return "", "", "", err
	}
	text = "Welcome, " + name + "! Your Carsphere account is ready."
	return welcomeSubject, text, buf.String(), nil
}
