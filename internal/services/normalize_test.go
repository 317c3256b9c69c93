package services

import "testing"

func TestNormalizeMessage(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text passes through", "I feel anxious today", "I feel anxious today"},
		{"whitespace collapses", "  I   feel\t\nanxious  ", "I feel anxious"},
		{"whitespace only", "   \t\n  ", ""},
		{"empty input", "", ""},
		{"disallowed characters stripped", "hello <script>@#$%", "hello script"},
		{"allowed punctuation kept", "I'm okay, really! (mostly)", "I'm okay, really! (mostly)"},
		{"repeated phrase collapses", "I feel sad I feel sad", "I feel sad"},
		{"repeated phrase collapses case-insensitively", "i feel sad I Feel Sad", "i feel sad"},
		{"triple repeat collapses to one", "help help help", "help"},
		{"leading repeat collapses", "I feel I feel sad", "I feel sad"},
		{"deliberate non-adjacent repeat survives", "I feel sad because I feel sad", "I feel sad because I feel sad"},
		{"symbols only", "@#$%^&*", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeMessage(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizeMessage(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
