package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// CodeGenerator produces one-time verification codes. It is an injection
// point so tests can supply deterministic codes.
type CodeGenerator interface {
	Generate() (string, error)
}

const (
	codeMin  = 100000
	codeSpan = 900000
)

type cryptoCodeGenerator struct{}

// NewCodeGenerator returns a generator that draws a uniform 6-digit code
// from [100000, 999999] using crypto/rand. The lower bound keeps the code
// at a fixed width with no leading zeros.
func NewCodeGenerator() CodeGenerator {
	return cryptoCodeGenerator{}
}

func (cryptoCodeGenerator) Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
