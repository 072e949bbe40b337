package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"

	"storefront/models"
	"storefront/utils"
)

const (
	tokenKeySize   = 32
	tokenNonceSize = 12
	tokenMACSize   = 20
	tokenPrefix    = "tok_"
)

// Tokenizer turns card details into an opaque payment token
type Tokenizer interface {
	Tokenize(ctx context.Context, card models.CardDetails) (string, error)
}

// MACTokenizer is a local tokenizer: a keyed BLAKE2b MAC over a random nonce
// and the card fields. Tokens cannot be reversed into card data. A real
// payment provider replaces it through the Tokenizer interface.
type MACTokenizer struct {
	key  []byte
	rand io.Reader
}

// NewMACTokenizer derives the MAC key from secret. An empty secret uses a
// random per-process key.
func NewMACTokenizer(secret string) (*MACTokenizer, error) {
	key := make([]byte, tokenKeySize)
	if secret == "" {
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate tokenizer key: %w", err)
		}
		return &MACTokenizer{key: key, rand: rand.Reader}, nil
	}

	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("storefront payment token v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive tokenizer key: %w", err)
	}
	return &MACTokenizer{key: key, rand: rand.Reader}, nil
}

// Ensure MACTokenizer implements Tokenizer
var _ Tokenizer = (*MACTokenizer)(nil)

// Tokenize returns a fresh token for card. Two calls with the same card
// return different tokens.
func (t *MACTokenizer) Tokenize(ctx context.Context, card models.CardDetails) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	nonce := make([]byte, tokenNonceSize)
	if _, err := io.ReadFull(t.rand, nonce); err != nil {
		return "", fmt.Errorf("failed to read token nonce: %w", err)
	}

	mac, err := blake2b.New(tokenMACSize, t.key)
	if err != nil {
		return "", fmt.Errorf("failed to create token mac: %w", err)
	}

	fields := encodeCardFields(card)
	mac.Write(nonce)
	mac.Write(fields)
	utils.Wipe(fields)

	token := append(nonce, mac.Sum(nil)...)
	return tokenPrefix + base64.RawURLEncoding.EncodeToString(token), nil
}

// encodeCardFields length-prefixes every field so no two cards share an encoding
func encodeCardFields(card models.CardDetails) []byte {
	var buf []byte
	for _, f := range []string{
		string(card.CardType),
		card.HolderName,
		card.Number,
		fmt.Sprintf("%02d/%04d", card.ExpiryMonth, card.ExpiryYear),
		card.SecurityCode,
	} {
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(f)))
		buf = append(buf, f...)
	}
	return buf
}
