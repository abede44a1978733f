package jwtx

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and verifies session tokens with a single Ed25519 keypair.
// Access and refresh tokens share the key and differ only in their typ
// claim and lifetime.
type Codec struct {
	issuer string
	key    ed25519.PrivateKey
	pub    ed25519.PublicKey
}

// NewCodec loads an Ed25519 private key from PEM bytes.
// Ed25519 keys must be in PKCS8 format.
func NewCodec(issuer string, pemKey []byte) (*Codec, error) {
	block, _ := pem.Decode(pemKey)
	if block == nil {
		return nil, errors.New("jwtx: invalid PEM for Ed25519 key")
	}

	if block.Type != "PRIVATE KEY" {
		return nil, fmt.Errorf("jwtx: expected PRIVATE KEY, got %q (Ed25519 requires PKCS8)", block.Type)
	}

	priv, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("jwtx: parse PKCS8: %w", err)
	}

	// Make sure it's actually an Ed25519 key
	key, ok := priv.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("jwtx: not Ed25519 private key")
	}

	return &Codec{
		issuer: issuer,
		key:    key,
		pub:    key.Public().(ed25519.PublicKey),
	}, nil
}

// NewEphemeralCodec generates a throwaway Ed25519 keypair. Every restart
// invalidates all outstanding tokens, so this is only for dev and tests.
func NewEphemeralCodec(issuer string) (*Codec, error) {
	pemKey, err := GenerateKeyPEM()
	if err != nil {
		return nil, err
	}
	return NewCodec(issuer, pemKey)
}

// GenerateKeyPEM produces a fresh Ed25519 private key as PKCS8 PEM bytes.
func GenerateKeyPEM() ([]byte, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("jwtx: generate key: %w", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return nil, fmt.Errorf("jwtx: marshal PKCS8: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// Issuer returns the iss value this codec stamps and enforces.
func (c *Codec) Issuer() string { return c.issuer }

// Sign issues a token for the subject with the given role and lifetime,
// returning both the compact JWT and the claims that went into it.
func (c *Codec) Sign(subject string, typ TokenType, ttl time.Duration) (string, Claims, error) {
	claims := NewClaims(subject, c.issuer, typ, ttl, time.Now().UTC())
	token, err := c.SignClaims(claims)
	if err != nil {
		return "", Claims{}, err
	}
	return token, claims, nil
}

// SignClaims turns prepared claims into a signed compact JWT.
func (c *Codec) SignClaims(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return t.SignedString(c.key)
}

// Verify parses and validates a compact JWT, enforcing the expected token
// type and the codec's issuer.
//
// On ErrExpired the returned Claims are still populated from the token so
// callers can read the subject of an expired-but-authentic token. For any
// other error the Claims are zero.
func (c *Codec) Verify(tokenStr string, typ TokenType) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	var claims Claims
	token, err := parser.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return c.pub, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			// Signature checked out; surface the claims with the sentinel.
			if terr := c.checkClaims(&claims, typ); terr != nil {
				return Claims{}, terr
			}
			return claims, ErrExpired
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return Claims{}, ErrNotYetValid
		default:
			// Garbage input, wrong algorithm, bad signature: all malformed
			// as far as callers are concerned.
			return Claims{}, ErrMalformed
		}
	}

	if !token.Valid {
		return Claims{}, ErrMalformed
	}

	if err := c.checkClaims(&claims, typ); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

func (c *Codec) checkClaims(claims *Claims, typ TokenType) error {
	if err := claims.ValidateIssuer(c.issuer); err != nil {
		return err
	}
	if claims.TokenType != typ {
		return ErrTokenType
	}
	if claims.Subject == "" {
		return ErrInvalidClaim
	}
	return nil
}
