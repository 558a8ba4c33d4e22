package mail

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"time"
)

const reminderTpl = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta http-equiv="Content-Type" content="text/html; charset=UTF-8" />
</head>
<body style="background-color:#fff;margin:0 auto;font-family:ui-sans-serif,system-ui,-apple-system,BlinkMacSystemFont,Segoe UI,Roboto,Helvetica Neue,Arial,sans-serif;padding:.5rem">
  <table align="center" width="100%" role="presentation" cellspacing="0" cellpadding="0" border="0" style="max-width:100%;border:1px solid rgb(14,165,233);border-radius:.25rem;margin:40px auto;padding:20px;width:550px">
    <tbody>
      <tr><td>
        <h1 style="color:#000;font-size:18px;font-weight:400;text-align:center;margin:30px 0">Reminder: <strong>{{.Title}}</strong></h1>
        {{range lines .Text}}<p style="font-size:14px;line-height:22px;margin:4px 0;color:#000">{{.}}</p>
        {{end}}
        <hr style="width:100%;border:none;border-top:1px solid #eaeaea;margin:26px 0" />
        <p style="font-size:10px;line-height:24px;margin:16px 0;text-align:center;color:rgb(156,163,175)">This email was sent automatically, please do not reply.<br />©{{year}} Dental Tracker</p>
      </td></tr>
    </tbody>
  </table>
</body>
</html>`

// ReminderData is the content of a reminder email.
type ReminderData struct {
	Title string
	Text  string
}

func renderTemplate(tpl string, data interface{}) (string, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
		"lines": func(s string) []string {
			var out []string
			for _, line := range strings.Split(s, "\n") {
				if strings.TrimSpace(line) != "" {
					out = append(out, line)
				}
			}
			return out
		},
	}).Parse(tpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendReminder sends a reminder with the plain-text body and an HTML rendering of it.
func (s *Sender) SendReminder(ctx context.Context, to string, data ReminderData) error {
	html, err := renderTemplate(reminderTpl, data)
	if err != nil {
		return err
	}
	return s.Send(ctx, Message{
		To:      []string{to},
		Subject: "Reminder: " + data.Title,
		Text:    data.Text,
		HTML:    html,
	})
}
