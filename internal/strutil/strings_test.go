package strutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRemoveExtraSpaces(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "test_not_modifying_0",
			source: "Доллар США",
			want:   "Доллар США",
		},
		{
			name:   "test_not_extra_space_inner",
			source: "Доллар  США",
			want:   "Доллар США",
		},
		{
			name:   "test_not_extra_space_inner_tab",
			source: "Доллар        \tСША",
			want:   "Доллар США",
		},
		{
			name:   "test_not_extra_space_inner_outer_newline",
			source: "\n            Доллар США\n        ",
			want:   "Доллар США",
		},
		{
			name:   "test_nbsp",
			source: "\u00a0USD\u00a0",
			want:   "USD",
		},
	}

	for _, test := range testCases {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := RemoveExtraSpaces(test.source)
			if got != test.want {
				diff := cmp.Diff(test.want, got)
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeDecimal(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "test_comma",
			source: "90,3451",
			want:   "90.3451",
		},
		{
			name:   "test_period",
			source: "90.3451",
			want:   "90.3451",
		},
		{
			name:   "test_grouping",
			source: "1 234,5",
			want:   "1234.5",
		},
		{
			name:   "test_nbsp_grouping",
			source: "\u00a01\u00a0234,5 ",
			want:   "1234.5",
		},
	}

	for _, test := range testCases {
		test := test

		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeDecimal(test.source)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("mismatch (-want, +got):\n%s", diff)
			}
		})
	}
}
