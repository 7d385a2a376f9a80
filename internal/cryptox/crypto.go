// Package cryptox derives and checks the credential verifiers that the
// credential authenticator keeps in local metadata.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random salt generated on enrollment.
const SaltSize = 32

// DeriveMasterKey stretches credential with salt using argon2id.
func DeriveMasterKey(credential []byte, salt []byte) []byte {
	return argon2.IDKey(credential, salt, 1, 64*1024, 4, 32)
}

// MakeVerifier hashes a derived key into the value that is persisted.
// The derived key itself is never stored.
func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// CheckCredential reports whether credential, stretched with salt,
// produces the stored verifier. The comparison runs in constant time.
func CheckCredential(credential, salt, verifier []byte) bool {
	if len(salt) == 0 || len(verifier) == 0 {
		return false
	}
	candidate := MakeVerifier(DeriveMasterKey(credential, salt))
	return subtle.ConstantTimeCompare(candidate, verifier) == 1
}
