package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
		wantErr  bool
	}{
		{key: "cvs/a.pdf", expected: "cvs/a.pdf"},
		{key: "photos//b.png", expected: "photos/b.png"},
		{key: "cvs/../photos/c.png", expected: "photos/c.png"},
		{key: `photos\d.jpg`, expected: "photos/d.jpg"},
		{key: "", wantErr: true},
		{key: "/etc/passwd", wantErr: true},
		{key: "../secret", wantErr: true},
		{key: "cvs/../../secret", wantErr: true},
		{key: ".", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := cleanKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNewKey(t *testing.T) {
	key := NewKey(PhotoDir, "Me.JPG")
	assert.True(t, strings.HasPrefix(key, "photos/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, NewKey(PhotoDir, "Me.JPG"))

	assert.NotContains(t, NewKey(CVDir, "noext"), ".")
}
