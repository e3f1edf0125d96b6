package utils

import "testing"

func TestPasswordCharacterClasses(t *testing.T) {
	cases := []struct {
		in                string
		letter, hasNumber bool
	}{
		{"password1", true, true},
		{"password", true, false},
		{"12345678", false, true},
		{"čćžšđ!!", false, false},
		{"", false, false},
	}
	for _, tc := range cases {
		if got := HasLetter(tc.in); got != tc.letter {
			t.Errorf("HasLetter(%q) = %v, want %v", tc.in, got, tc.letter)
		}
		if got := HasNumber(tc.in); got != tc.hasNumber {
			t.Errorf("HasNumber(%q) = %v, want %v", tc.in, got, tc.hasNumber)
		}
	}
}
