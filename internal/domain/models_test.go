package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobRecord_Links(t *testing.T) {
	empty := ""
	link := "https://example.com/1"

	tests := []struct {
		name    string
		link    *string
		has     bool
		raw     string
		display string
	}{
		{"nil link", nil, false, "", NoLinkLabel},
		{"empty link", &empty, false, "", NoLinkLabel},
		{"present", &link, true, link, link},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := JobRecord{Title: "Go Dev", Link: tt.link}
			assert.Equal(t, tt.has, rec.HasLink())
			assert.Equal(t, tt.raw, rec.LinkOrEmpty())
			assert.Equal(t, tt.display, rec.DisplayLink())
		})
	}
}
