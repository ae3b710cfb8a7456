package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
)

// ParsePublicKey decodes a base64 Ed25519 public key.
func ParsePublicKey(encoded string) (ed25519.PublicKey, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return ed25519.PublicKey(raw), nil
}

// VerifyProof checks that signature is the holder's Ed25519 signature over challenge.
func VerifyProof(encodedPublicKey, challenge, encodedSignature string) bool {
	pub, err := ParsePublicKey(encodedPublicKey)
	if err != nil {
		return false
	}
	sig, err := base64.StdEncoding.DecodeString(encodedSignature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, []byte(challenge), sig)
}
