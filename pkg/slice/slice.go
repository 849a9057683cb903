// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slice holds small generic helpers for projecting and filtering slices.
package slice

// Map returns transform applied to every element of input, in order.
// A nil input yields an empty, non-nil slice.
func Map[T any, U any](input []T, transform func(T) U) []U {
	output := make([]U, 0, len(input))
	for _, item := range input {
		output = append(output, transform(item))
	}
	return output
}

// Filter returns the elements of input for which keep reports true.
func Filter[T any](input []T, keep func(T) bool) []T {
	output := make([]T, 0, len(input))
	for _, item := range input {
		if keep(item) {
			output = append(output, item)
		}
	}
	return output
}
