package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIsWhitelisted(t *testing.T) {
	checker := NewChecker([]string{" Example.com ", "partner.com.br", ""}, zap.NewNop())

	tests := []struct {
		from string
		want bool
	}{
		{"alice@example.com", true},
		{"ALICE@EXAMPLE.COM", true},
		{"Alice Silva <alice@example.com>", true},
		{"<bob@partner.com.br>", true},
		{"bob@sub.example.com", false},
		{"carol@other.com", false},
		{"not-an-address", false},
		{"", false},
		{"trailing@", false},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.IsWhitelisted(tt.from))
		})
	}
}

func TestIsWhitelisted_EmptyList(t *testing.T) {
	checker := NewChecker(nil, nil)
	assert.False(t, checker.IsWhitelisted("alice@example.com"))
}

func TestDomainOf(t *testing.T) {
	assert.Equal(t, "example.com", DomainOf("Alice <alice@Example.com>"))
	assert.Equal(t, "example.com", DomainOf("alice@example.com"))
	assert.Equal(t, "", DomainOf("@example.com"))
	assert.Equal(t, "", DomainOf("nobody"))
}
