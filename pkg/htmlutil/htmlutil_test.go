package htmlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspect(t *testing.T) {
	tests := []struct {
		name            string
		html            string
		wantTitle       string
		wantDescription string
	}{
		{
			name:            "title and description",
			html:            `<html><head><title> Login Page </title><meta name="description" content="Sign in here"></head><body></body></html>`,
			wantTitle:       "Login Page",
			wantDescription: "Sign in here",
		},
		{
			name:      "title only",
			html:      `<html><head><title>Dashboard</title></head><body><p>hi</p></body></html>`,
			wantTitle: "Dashboard",
		},
		{
			name: "no head",
			html: `<p>fragment</p>`,
		},
		{
			name: "empty input",
			html: "",
		},
		{
			name:      "unclosed markup still parses",
			html:      `<html><head><title>Broken`,
			wantTitle: "Broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Inspect(tt.html)
			assert.Equal(t, tt.wantTitle, info.Title)
			assert.Equal(t, tt.wantDescription, info.Description)
		})
	}
}
