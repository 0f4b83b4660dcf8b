package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	// secretAlphabet avoids characters that need quoting in env files.
	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	// codeAlphabet drops look-alike characters so a code can be read aloud.
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	SecretKeyLength  = 48
	AccessCodeLength = 10
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString returns a uniformly distributed string drawn from alphabet
// using crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}
	return string(value), nil
}

// SecretKey returns a value suitable for the secret_key setting.
func SecretKey() (string, error) {
	return RandomString(SecretKeyLength, secretAlphabet)
}

// AccessCode returns a shareable unlock code for the admin_password setting.
func AccessCode() (string, error) {
	return RandomString(AccessCodeLength, codeAlphabet)
}
