// Package common contains shared constants and small helpers used across
// Aurahood client components.
package common

// DefaultSessionKey is the storage slot that holds the serialized identity
// of the signed-in user.
const DefaultSessionKey = "aurahood_user"

// CredentialKeyPrefix prefixes metadata keys written by the credential
// authenticator. Keys have the form credential:<email>:<part>.
const CredentialKeyPrefix = "credential:"
