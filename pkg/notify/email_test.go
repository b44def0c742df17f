package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJob() Job {
	return Job{
		UserID:    "u-1",
		Email:     "maria@example.com",
		ReportID:  "r-1",
		Category:  "pothole",
		Status:    "in_progress",
		Message:   "Crew dispatched",
		CreatedAt: time.Date(2026, 8, 12, 9, 30, 0, 0, time.UTC),
	}
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "[CityAssist] pothole report in progress", Subject(testJob()))
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(testJob())
	require.NoError(t, err)
	assert.Contains(t, html, "Crew dispatched")
	assert.Contains(t, html, "r-1")
	assert.Contains(t, html, "12 August 2026")
}

func TestRenderHTMLEscapesContent(t *testing.T) {
	j := testJob()
	j.Message = `<script>alert("x")</script>`
	html, err := RenderHTML(j)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderText(t *testing.T) {
	text := RenderText(testJob())
	assert.Contains(t, text, "Crew dispatched")
	assert.Contains(t, text, "Report: r-1")
	assert.Contains(t, text, "Status: in_progress")
}
