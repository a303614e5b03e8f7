package discover

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBrandURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"http forced to https", "http://gift.kakao.com/brand/123", "https://gift.kakao.com/brand/123"},
		{"query stripped", "https://gift.kakao.com/brand/123?tab=items", "https://gift.kakao.com/brand/123"},
		{"fragment stripped", "https://gift.kakao.com/brand/123#top", "https://gift.kakao.com/brand/123"},
		{"trailing slash stripped", "https://gift.kakao.com/brand/123/", "https://gift.kakao.com/brand/123"},
		{"all at once", "http://gift.kakao.com/brand/123/?tab=items#top", "https://gift.kakao.com/brand/123"},
		{"already canonical", "https://gift.kakao.com/brand/123", "https://gift.kakao.com/brand/123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBrandURL(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeBrandURL(got), "normalization must be idempotent")
		})
	}
}

func TestAbsolutize(t *testing.T) {
	t.Parallel()

	base := "https://gift.kakao.com"
	assert.Equal(t, "https://gift.kakao.com/brand/7", absolutize(base, "/brand/7"))
	assert.Equal(t, "https://gift.kakao.com/brand/7", absolutize(base, "brand/7"))
	assert.Equal(t, "https://other.example.com/brand/7", absolutize(base, "https://other.example.com/brand/7"))
	assert.Equal(t, "", absolutize(base, ""))
}
