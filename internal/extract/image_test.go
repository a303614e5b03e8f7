package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveImage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		snap Snapshot
		want string
	}{
		{
			"absolute src",
			Snapshot{ImageSrc: "https://img.example.com/p/1.jpg"},
			"https://img.example.com/p/1.jpg",
		},
		{
			"protocol-relative src",
			Snapshot{ImageSrc: "//img.example.com/p/1.jpg"},
			"https://img.example.com/p/1.jpg",
		},
		{
			"srcset first candidate",
			Snapshot{SrcsetRaw: "//img.example.com/p/1.jpg 1x, //img.example.com/p/1@2x.jpg 2x"},
			"https://img.example.com/p/1.jpg",
		},
		{
			"fname parameter",
			Snapshot{SrcsetRaw: "https://thumb.example.com/resize?fname=//cdn.example.com/p/9.png&w=240"},
			"https://cdn.example.com/p/9.png",
		},
		{
			"fname with absolute url",
			Snapshot{SrcsetRaw: "https://thumb.example.com/resize?fname=https://cdn.example.com/p/9.png"},
			"https://cdn.example.com/p/9.png",
		},
		{
			"src wins over srcset",
			Snapshot{ImageSrc: "https://img.example.com/a.jpg", SrcsetRaw: "//img.example.com/b.jpg 1x"},
			"https://img.example.com/a.jpg",
		},
		{"nothing", Snapshot{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveImage(tt.snap))
		})
	}
}

func TestPlaceholderMatcher(t *testing.T) {
	t.Parallel()

	m := NewPlaceholderMatcher([]string{"default_fallback_thumbnail.png"})

	assert.True(t, m.Unusable(""))
	assert.True(t, m.Unusable("   "))
	assert.True(t, m.Unusable("https://cdn.example.com/default_fallback_thumbnail.png"))
	assert.False(t, m.Unusable("https://cdn.example.com/p/1.jpg"))
}
