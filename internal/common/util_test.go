package common

import "testing"

// ---------- WipeByteArray ----------

func TestWipeByteArray(t *testing.T) {
	b := []byte("secret")
	WipeByteArray(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not wiped: %v", i, v)
		}
	}
	WipeByteArray(nil) // must not panic
}

// ---------- NormalizeEmail ----------

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a@b.com", "a@b.com"},
		{"  A@B.Com ", "a@b.com"},
		{"\tUSER@EXAMPLE.ORG\n", "user@example.org"},
	}
	for _, tc := range tests {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// ---------- ValidEmail ----------

func TestValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "user@example.org", "first.last@sub.domain.io"}
	for _, e := range valid {
		if !ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = false, want true", e)
		}
	}

	invalid := []string{"", "a@b", "@b.com", "a@", "a.b.com", "a@@b.com", ".a@b.com", "a@b.com."}
	for _, e := range invalid {
		if ValidEmail(e) {
			t.Errorf("ValidEmail(%q) = true, want false", e)
		}
	}
}
