package growatt

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	tc := []struct {
		password, want string
	}{
		// md5 of "password" contains no '0' at even offsets, so no substitution fires
		{"password", "5f4dcc3b5aa765d61d8327deb882cf99"},
		{"growatt2020", "eee364414cda80eaea64c9fed6c2ca88"},
		{"a", "ccc175b9c0f1b6a831c399e269772661"},
		{"", "d41d8cd98fc0b2c4e980c998ecf8427e"},
	}

	for _, tc := range tc {
		if got := HashPassword(tc.password); got != tc.want {
			t.Errorf("HashPassword(%q) = %s, want %s", tc.password, got, tc.want)
		}
	}
}

func TestHashPasswordShape(t *testing.T) {
	for _, password := range []string{"password", "growatt2020", "", "correct horse battery staple"} {
		got := HashPassword(password)

		if len(got) != 32 {
			t.Fatalf("HashPassword(%q) = %s, want 32 characters", password, got)
		}

		for i, r := range got {
			if !strings.ContainsRune("0123456789abcdef", r) {
				t.Errorf("HashPassword(%q): non-hex character %q at index %d", password, r, i)
			}
			if i%2 == 0 && r == '0' {
				t.Errorf("HashPassword(%q): unsubstituted '0' at even index %d", password, i)
			}
		}

		if again := HashPassword(password); again != got {
			t.Errorf("HashPassword(%q) not deterministic: %s != %s", password, again, got)
		}
	}
}
