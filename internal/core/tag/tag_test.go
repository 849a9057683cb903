// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"golang", "golang"},
		{"  Go--Lang!! ", "golang"},
		{"Web   Dev", "web dev"},
		{"STRASSE", "strasse"},
		{"Straße", "strasse"},
		{"Café", "café"},
		{"ｆｕｌｌ ｗｉｄｔｈ", "full width"},
		{"#$%^", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeAll(t *testing.T) {
	names, err := NormalizeAll([]string{"Go", "go!", "  ", "Rust", "GO"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, names)

	var many []string
	for i := 0; i <= MaxTagsPerPost; i++ {
		many = append(many, fmt.Sprintf("tag%d", i))
	}
	_, err = NormalizeAll(many)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	_, err = NormalizeAll([]string{strings.Repeat("a", NameMaxLen+1)})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}
