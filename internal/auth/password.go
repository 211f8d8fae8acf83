package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"unicode"
)

// Password strength labels, weakest to strongest.
const (
	StrengthWeak       = "Débil"
	StrengthMedium     = "Media"
	StrengthStrong     = "Fuerte"
	StrengthVeryStrong = "Muy Fuerte"
)

// HashPassword derives an HMAC-SHA512 digest of the password. The HMAC
// key is generated fresh per user and stored as the salt, so verifying
// means re-keying the HMAC with the stored salt.
func HashPassword(password string) (hash, salt []byte, err error) {
	salt = make([]byte, 64)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, err
	}

	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return mac.Sum(nil), salt, nil
}

// VerifyPassword recomputes the keyed hash and compares in constant time.
func VerifyPassword(password string, hash, salt []byte) bool {
	mac := hmac.New(sha512.New, salt)
	mac.Write([]byte(password))
	return hmac.Equal(mac.Sum(nil), hash)
}

// PasswordStrength scores a candidate password the same way the signup
// form does: one point each for length, upper, lower, digit and symbol.
func PasswordStrength(password string) string {
	score := 0

	if len(password) >= 8 {
		score++
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSymbol} {
		if ok {
			score++
		}
	}

	switch score {
	case 5:
		return StrengthVeryStrong
	case 4:
		return StrengthStrong
	case 3:
		return StrengthMedium
	default:
		return StrengthWeak
	}
}
