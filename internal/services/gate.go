package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
)

var ErrGateSecretMissing = errors.New("gate secret is not configured")

// AccessFlagStore persists the unlocked flag for one client.
type AccessFlagStore interface {
	LoadUnlocked() bool
	SaveUnlocked() error
	ClearUnlocked()
}

// AccessGate is a shared-passcode convenience gate. It is not a security
// boundary: no hashing, no attempt limits.
type AccessGate struct {
	secret string
}

func NewAccessGate(secret string) *AccessGate {
	return &AccessGate{secret: secret}
}

// Unlock persists the flag when code matches the configured secret. A
// mismatch returns false and touches nothing.
func (gate *AccessGate) Unlock(flags AccessFlagStore, code string) (bool, error) {
	if gate.secret == "" {
		return false, ErrGateSecretMissing
	}
	if subtle.ConstantTimeCompare([]byte(code), []byte(gate.secret)) != 1 {
		return false, nil
	}
	if err := flags.SaveUnlocked(); err != nil {
		return false, fmt.Errorf("persist unlocked flag: %w", err)
	}
	return true, nil
}

func (gate *AccessGate) Lock(flags AccessFlagStore) {
	flags.ClearUnlocked()
}

func (gate *AccessGate) IsUnlocked(flags AccessFlagStore) bool {
	return flags.LoadUnlocked()
}
