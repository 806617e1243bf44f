package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkEmailDomain(t *testing.T) {
	personal := map[string]bool{"gmail.com": true, "yahoo.co.uk": true}

	tests := []struct {
		email  string
		want   string
		wantOK bool
	}{
		{"dana@acme.com", "acme.com", true},
		{"Dana@Mail.Acme.CO.UK", "acme.co.uk", true},
		{"dana@gmail.com", "", false},
		{"dana@uk.yahoo.co.uk", "", false},
		{"dana@localhost", "", false},
		{"not-an-email", "", false},
		{"@acme.com", "", false},
		{"dana@", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got, ok := WorkEmailDomain(tt.email, personal)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
