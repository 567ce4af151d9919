// Package shortcode generates the random public identifiers of short links.
package shortcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Length is the number of characters in a generated short code
const Length = 6

// Alphabet holds the characters a short code is drawn from
const Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generator produces short code candidates
type Generator func() (string, error)

// Generate returns a random short code using crypto/rand.
// Every character is drawn uniformly from Alphabet.
func Generate() (string, error) {
	b := make([]byte, Length)
	for i := range b {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate random index: %w", err)
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b), nil
}

// reserved holds codes that collide with fixed HTTP routes
var reserved = map[string]bool{
	"health": true,
	"qrcode": true,
}

// Reserved reports whether code would be shadowed by a fixed route
func Reserved(code string) bool {
	return reserved[code]
}

// Valid reports whether code has the length and characters of a generated code
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}
