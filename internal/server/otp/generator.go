package otp

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Generator produces one-time codes. It is an explicit dependency of the
// Engine so tests can substitute a deterministic sequence.
type Generator interface {
	Code() (string, error)
}

// CryptoGenerator draws every digit independently from crypto/rand. The
// first digit is 1–9, the rest 0–9, so codes always land in
// [100000, 999999] and never carry a leading zero.
type CryptoGenerator struct{}

func (CryptoGenerator) Code() (string, error) {
	var b strings.Builder
	b.Grow(codeLength)

	first, err := rand.Int(rand.Reader, big.NewInt(9))
	if err != nil {
		return "", err
	}
	b.WriteByte(byte('1' + first.Int64()))

	ten := big.NewInt(10)
	for i := 1; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}
