// Package validate holds cheap secondary checks that run after a pattern
// matches, to drop lexical matches that cannot be real identifiers.
package validate

// LengthBetween returns true if len(s) is within [min,max].
func LengthBetween(s string, min, max int) bool {
	n := len(s)
	return n >= min && n <= max
}

// Digits returns the ASCII digits of s in order, dropping everything else.
func Digits(s string) string {
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b = append(b, s[i])
		}
	}
	return string(b)
}

// Luhn runs the mod-10 check over a digit-only string.
// Starting from the rightmost digit, every second digit is doubled and
// reduced by 9 when it exceeds 9.
func Luhn(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// CreditCard validates a payment card candidate: separators are ignored,
// 13-19 digits are required and the Luhn check must pass.
func CreditCard(value string) bool {
	d := Digits(value)
	if !LengthBetween(d, 13, 19) {
		return false
	}
	return Luhn(d)
}

var brnWeights = [9]int{1, 3, 7, 1, 3, 7, 1, 3, 5}

// BusinessNumberKR validates a Korean business registration number
// (NNN-NN-NNNNN) with its weighted mod-10 check digit.
func BusinessNumberKR(value string) bool {
	d := Digits(value)
	if len(d) != 10 {
		return false
	}
	sum := 0
	for i, w := range brnWeights {
		sum += int(d[i]-'0') * w
	}
	sum += int(d[8]-'0') * 5 / 10
	check := (10 - sum%10) % 10
	return check == int(d[9]-'0')
}
