// Package joincode generates the short human-enterable codes that identify a
// group for join purposes.
package joincode

import "crypto/rand"

// Length is the number of characters in a generated code.
const Length = 8

// chars excludes 0/O and 1/I so codes stay unambiguous when read aloud. The
// set has 32 entries, which divides 256 evenly, so indexing random bytes by
// modulo introduces no bias.
var chars = []byte("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")

// Generator produces candidate join codes. Uniqueness among active groups is
// enforced by the store's unique constraint; callers draw again on collision.
type Generator interface {
	Generate() (string, error)
}

// Random generates codes from crypto/rand.
type Random struct{}

func (Random) Generate() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = chars[int(b)%len(chars)]
	}
	return string(buf), nil
}
