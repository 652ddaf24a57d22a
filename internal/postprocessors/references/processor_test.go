package references

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aswinpillai2222/Ai-Capstone/internal/core/domain"
)

func TestProcessor_Trim(t *testing.T) {
	body := strings.Repeat("Transformers use attention.\n", 20)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "strips trailing bibliography",
			content: body + "References\n[1] Vaswani et al. 2017\n",
			want:    body,
		},
		{
			name:    "numbered heading",
			content: body + "7. Bibliography\n[1] x\n",
			want:    body,
		},
		{
			name:    "no heading",
			content: body,
			want:    body,
		},
		{
			name:    "heading too early is kept",
			content: "References\n" + body,
			want:    "References\n" + body,
		},
		{
			name:    "word inside a sentence is not a heading",
			content: body + "See the references below for details.\n",
			want:    body + "See the references below for details.\n",
		},
	}

	p := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Trim(tt.content))
		})
	}
}

func TestProcessor_Process(t *testing.T) {
	p := New(WithMinPosition(0))
	doc := &domain.Document{ID: "d", Content: "Intro\nReferences\n[1] a"}
	in := []domain.Chunk{{ID: "d-0"}}

	out, err := p.Process(context.Background(), doc, in)

	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, "Intro\n", doc.Content)
	assert.Equal(t, "references", p.Name())
}

func TestWithMinPosition_IgnoresOutOfRange(t *testing.T) {
	assert.Equal(t, DefaultMinPosition, New(WithMinPosition(1.5)).minPosition)
	assert.Equal(t, DefaultMinPosition, New(WithMinPosition(-0.1)).minPosition)
	assert.Equal(t, 0.25, New(WithMinPosition(0.25)).minPosition)
}
