package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var reportEmailTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #1f2933;">
    <h2>CityAssist report update</h2>
    <p>{{.Message}}</p>
    <table cellpadding="4">
      <tr><td><b>Report</b></td><td>{{.ReportID}}</td></tr>
      <tr><td><b>Category</b></td><td>{{.Category}}</td></tr>
      <tr><td><b>Status</b></td><td>{{.Status}}</td></tr>
      <tr><td><b>Time</b></td><td>{{.CreatedAt.Format "02 January 2006, 15:04 MST"}}</td></tr>
    </table>
  </body>
</html>`))

// Subject builds the email subject line for a job.
func Subject(j Job) string {
	return fmt.Sprintf("[CityAssist] %s report %s", j.Category, strings.ReplaceAll(j.Status, "_", " "))
}

// RenderHTML renders the report update email body.
func RenderHTML(j Job) (string, error) {
	var buf bytes.Buffer
	if err := reportEmailTmpl.Execute(&buf, j); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderText renders a plain-text fallback body.
func RenderText(j Job) string {
	return fmt.Sprintf("%s\n\nReport: %s\nCategory: %s\nStatus: %s\n", j.Message, j.ReportID, j.Category, j.Status)
}
