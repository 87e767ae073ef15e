package httpx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAssetPath(t *testing.T) {
	const origin = "https://api.example.com"

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"empty", "", ""},
		{"absolute http", "http://cdn.example.com/logo.png", "http://cdn.example.com/logo.png"},
		{"absolute https", "https://cdn.example.com/logo.png", "https://cdn.example.com/logo.png"},
		{"uploads prefix", "uploads/products/1.jpg", "https://api.example.com/uploads/products/1.jpg"},
		{"uploads with leading slash", "/uploads/products/1.jpg", "https://api.example.com/uploads/products/1.jpg"},
		{"storage prefix", "storage/avatars/2.png", "https://api.example.com/storage/avatars/2.png"},
		{"local asset", "img/placeholder.png", "/static/img/placeholder.png"},
		{"local with leading slash", "/img/placeholder.png", "/static/img/placeholder.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAssetPath(origin, tt.ref))
		})
	}
}

func TestResolveAssetPath_TrailingSlashOrigin(t *testing.T) {
	got := ResolveAssetPath("https://api.example.com/", "uploads/a.png")
	assert.Equal(t, "https://api.example.com/uploads/a.png", got)
}
