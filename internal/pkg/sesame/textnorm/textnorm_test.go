package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/llamasearchai/llamasesame/internal/pkg/sesame/textnorm"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whitespace collapse", "hello   \n\t world ", "hello world"},
		{"url stripped", "see https://example.com/x for details", "see for details"},
		{"html stripped", "say <b>hello</b> now", "say hello now"},
		{"email stripped", "mail me at someone@example.com please", "mail me at please"},
		{"curly quotes", "“hi” and ‘there’", `"hi" and 'there'`},
		{"em dash", "wait—now", "wait, now"},
		{"ellipsis", "so… yes", "so... yes"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textnorm.Clean(tt.in))
		})
	}
}
