// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-forum/internal/platform/apperr"
	"github.com/taibuivan/yomira-forum/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "General", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("name", tt.value)

			if !tt.hasError {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
				return
			}

			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Equal(t, "name", ae.Details[0].Field)
		})
	}
}

/*
TestValidator_Handle checks the user handle character set.
*/
func TestValidator_Handle(t *testing.T) {
	tests := []struct {
		value   string
		isValid bool
	}{
		{"alice", true},
		{"bob.the_builder-2", true},
		{"with space", false},
		{"semi;colon", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := (&validate.Validator{}).Handle("username", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	err := (&validate.Validator{}).
		Required("username", "").
		MinLen("password", "short", 8).
		Range("level", 0, 1, 10).
		OneOf("action", "kick", "timeout", "mute", "ban", "promote").
		UUID("target_user_id", "nope").
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 5)
}

/*
TestValidator_Chain_Success tests the fluent API when every rule passes.
*/
func TestValidator_Chain_Success(t *testing.T) {
	err := (&validate.Validator{}).
		Required("title", "Hello").
		MaxLen("title", "Hello", 200).
		UUID("post_id", "0190f5b2-7c1e-7d3a-9a4b-1f2e3d4c5b6a").
		Custom("level", false, "unused").
		Err()

	assert.NoError(t, err)
}
