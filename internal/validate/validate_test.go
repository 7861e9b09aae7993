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

func TestDigits(t *testing.T) {
	if got := Digits("4111-1111 1111.1111"); got != "4111111111111111" {
		t.Fatalf("unexpected digits: %q", got)
	}
	if got := Digits("no digits"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
}

func TestLuhn(t *testing.T) {
	valid := []string{"4111111111111111", "5500005555555559", "378282246310005", "79927398713"}
	for _, d := range valid {
		if !Luhn(d) {
			t.Fatalf("expected %s to pass Luhn", d)
		}
	}
	invalid := []string{"4111111111111112", "1234567812345678", "79927398710", ""}
	for _, d := range invalid {
		if Luhn(d) {
			t.Fatalf("expected %q to fail Luhn", d)
		}
	}
	if Luhn("4111-1111") {
		t.Fatal("expected non-digit input to fail")
	}
}

func TestCreditCard(t *testing.T) {
	if !CreditCard("4111-1111-1111-1111") {
		t.Fatal("expected dashed visa test number to validate")
	}
	if !CreditCard("3782 822463 10005") {
		t.Fatal("expected spaced amex test number to validate")
	}
	if CreditCard("4111-1111-1111-1112") {
		t.Fatal("expected bad check digit to fail")
	}
	// 12 digits that happen to pass Luhn are still too short.
	if CreditCard("000000000000") {
		t.Fatal("expected 12 digits to be rejected")
	}
	if CreditCard("41111111111111111111") {
		t.Fatal("expected 20 digits to be rejected")
	}
}

func TestBusinessNumberKR(t *testing.T) {
	if !BusinessNumberKR("220-81-62517") {
		t.Fatal("expected valid business number")
	}
	if BusinessNumberKR("220-81-62518") {
		t.Fatal("expected wrong check digit to fail")
	}
	if BusinessNumberKR("220-81-6251") {
		t.Fatal("expected short number to fail")
	}
}
