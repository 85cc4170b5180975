package validate

import "testing"

func TestLengthBetween(t *testing.T) {
	if !LengthBetween("abcd", 2, 5) {
		t.Fatal("expected true for length between")
	}
	if LengthBetween("a", 2, 5) {
		t.Fatal("expected false for too short")
	}
	if LengthBetween("abcdef", 2, 5) {
		t.Fatal("expected false for too long")
	}
}

func TestIsAlphabet(t *testing.T) {
	if !IsAlphabet("abcXYZ09", "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789") {
		t.Fatal("expected alnum to be allowed")
	}
	if IsAlphabet("abc-", "abc") {
		t.Fatal("expected false when char not allowed")
	}
	if IsAlphabet("", "abc") {
		t.Fatal("expected false for empty input")
	}
}

func TestLuhn(t *testing.T) {
	valid := []string{"4111111111111111", "5555555555554444", "378282246310005", "4111 1111 1111 1111"}
	for _, s := range valid {
		if !Luhn(s) {
			t.Fatalf("expected %q to pass Luhn", s)
		}
	}
	invalid := []string{"4111111111111112", "1234", "41111111111111x1"}
	for _, s := range invalid {
		if Luhn(s) {
			t.Fatalf("expected %q to fail Luhn", s)
		}
	}
}

func TestPlausibleSSN(t *testing.T) {
	if !PlausibleSSN("123-45-6789") {
		t.Fatal("expected ordinary SSN to be plausible")
	}
	for _, s := range []string{"000-12-3456", "666-12-3456", "912-34-5678", "123-00-4567", "123-45-0000", "12-345-6789"} {
		if PlausibleSSN(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestByName(t *testing.T) {
	for _, n := range Names() {
		if _, ok := ByName(n); !ok {
			t.Fatalf("listed validator %q not registered", n)
		}
	}
	if _, ok := ByName(" LUHN "); !ok {
		t.Fatal("expected lookup to ignore case and spaces")
	}
	if _, ok := ByName("entropy"); ok {
		t.Fatal("unexpected validator")
	}
}
