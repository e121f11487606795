// Package crypto protects credentials persisted by the client.
package crypto

// TokenSealer seals persisted token values at rest.
//
// name is the storage key the value is persisted under; it is bound to the
// ciphertext as additional data, so a sealed value copied to another key
// fails to open.
type TokenSealer interface {
	// Seal encrypts value. Empty values stay empty.
	Seal(name, value string) (string, error)

	// Open reverses Seal. It returns [ErrCannotOpen] (wrapped) when the value
	// was sealed with another secret, was tampered with, or was sealed while
	// this sealer has no secret.
	Open(name, sealed string) (string, error)

	// Enabled reports whether values are actually encrypted.
	Enabled() bool
}
