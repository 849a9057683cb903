// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tag deduplicates post tags by normalised name and lists them with
// their post counts.
package tag

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/yomira-forum/internal/platform/validate"
)

// Tag is a normalised label shared by posts.
type Tag struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	PostCount int    `json:"post_count"`
}

const (
	FieldTags = "tags"

	NameMaxLen     = 64
	MaxTagsPerPost = 10
)

/*
Normalize maps a raw tag to its stored form.

The input is NFKC-normalised and case-folded. Punctuation and symbols are
dropped and runs of whitespace collapse to a single space:

	"  Go--Lang!! " → "golang"
	"Web   Dev"     → "web dev"
*/
func Normalize(raw string) string {
	folded := cases.Fold().String(norm.NFKC.String(raw))

	var builder strings.Builder
	pendingSpace := false

	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r):
			if pendingSpace && builder.Len() > 0 {
				builder.WriteByte(' ')
			}
			pendingSpace = false
			builder.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}

	return builder.String()
}

/*
NormalizeAll normalises and deduplicates raw tags, keeping first-seen order.
Entries that normalise to nothing are skipped.

Returns:
  - error: Validation error for too many tags or an over-long name
*/
func NormalizeAll(raw []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))

	validator := &validate.Validator{}
	for _, entry := range raw {
		name := Normalize(entry)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		validator.Custom(FieldTags, utf8.RuneCountInString(name) > NameMaxLen,
			fmt.Sprintf("Tag %q exceeds %d characters", name, NameMaxLen))
		names = append(names, name)
	}

	validator.Custom(FieldTags, len(names) > MaxTagsPerPost, fmt.Sprintf("Maximum %d tags", MaxTagsPerPost))
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return names, nil
}
