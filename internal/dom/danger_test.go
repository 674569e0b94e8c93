package dom

import "testing"

func TestDangerous(t *testing.T) {
	tests := []struct {
		name string
		text string
		href string
		want bool
	}{
		{"plain button", "Save changes", "", false},
		{"logout verb", "Log Out", "", true},
		{"logout mixed case", "LOGOUT", "/logout", true},
		{"sign out embedded", "Sign out of your account", "", true},
		{"delete verb", "Delete project", "", true},
		{"unsubscribe", "Unsubscribe", "", true},
		{"cancel subscription phrase", "Cancel Subscription", "", true},
		{"cancel alone is fine", "Cancel", "", false},
		{"terminate", "Terminate session", "", true},
		{"safe link", "Dashboard", "/dashboard", false},
		{"mailto", "Contact", "mailto:x@ex.test", true},
		{"tel", "Call us", "tel:+123", true},
		{"javascript void", "Noop", "javascript:void(0)", true},
		{"bare hash", "Top", "#", true},
		{"hash route is allowed", "Users", "#/users", false},
		{"pdf", "Report", "/files/report.pdf", true},
		{"pdf with query", "Report", "/files/report.PDF?dl=1", true},
		{"zip", "Download", "https://ex.test/bundle.zip", true},
		{"docx", "Spec", "/docs/spec.docx", true},
		{"csv", "Export", "/export.csv", true},
		{"html page", "Page", "/page.html", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dangerous(tt.text, tt.href); got != tt.want {
				t.Errorf("Dangerous(%q, %q) = %v, want %v", tt.text, tt.href, got, tt.want)
			}
		})
	}
}
