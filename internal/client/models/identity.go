// Package models holds the identity record of the signed-in Aurahood user
// and the partial-update type used by profile and settings screens.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Baselines for newly registered accounts.
const (
	StartingAuraPoints = 100
	StartingTrustScore = 5.0
)

// Trust score bounds.
const (
	MinTrustScore = 0.0
	MaxTrustScore = 5.0
)

var (
	ErrIncompleteIdentity = errors.New("incomplete identity")
	ErrOutOfRange         = errors.New("value out of range")
)

// Identity is the serializable record of the signed-in user. The JSON
// field names match what earlier client builds stored in the slot.
type Identity struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Avatar     *string   `json:"avatar"`
	Roles      []string  `json:"roles"`
	AuraPoints int64     `json:"auraPoints"`
	TrustScore float64   `json:"trustScore"`
	CreatedAt  time.Time `json:"createdAt"`
	IsVerified bool      `json:"isVerified"`
}

// Validate checks that every required field is populated and that the
// counters are in range.
func (i Identity) Validate() error {
	switch {
	case strings.TrimSpace(i.ID) == "":
		return fmt.Errorf("%w: id", ErrIncompleteIdentity)
	case strings.TrimSpace(i.Name) == "":
		return fmt.Errorf("%w: name", ErrIncompleteIdentity)
	case strings.TrimSpace(i.Email) == "":
		return fmt.Errorf("%w: email", ErrIncompleteIdentity)
	case len(i.Roles) == 0:
		return fmt.Errorf("%w: roles", ErrIncompleteIdentity)
	case i.CreatedAt.IsZero():
		return fmt.Errorf("%w: createdAt", ErrIncompleteIdentity)
	}
	for _, r := range i.Roles {
		if strings.TrimSpace(r) == "" {
			return fmt.Errorf("%w: empty role", ErrIncompleteIdentity)
		}
	}
	if i.AuraPoints < 0 {
		return fmt.Errorf("%w: auraPoints %d", ErrOutOfRange, i.AuraPoints)
	}
	if math.IsNaN(i.TrustScore) || i.TrustScore < MinTrustScore || i.TrustScore > MaxTrustScore {
		return fmt.Errorf("%w: trustScore %.2f", ErrOutOfRange, i.TrustScore)
	}
	return nil
}

// Clone returns a deep copy.
func (i Identity) Clone() Identity {
	c := i
	if i.Roles != nil {
		c.Roles = append([]string(nil), i.Roles...)
	}
	if i.Avatar != nil {
		a := *i.Avatar
		c.Avatar = &a
	}
	return c
}

func (i Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Encode serializes the identity for the storage slot.
func (i Identity) Encode() ([]byte, error) {
	return json.Marshal(i)
}

// storedIdentity tracks which required fields were present in the stored
// document; a zero AuraPoints and a missing one must be told apart.
// AuraPoints is kept as a number literal because older builds could store
// a fractional counter.
type storedIdentity struct {
	ID         *string    `json:"id"`
	Name       *string    `json:"name"`
	Email      *string    `json:"email"`
	Avatar     *string    `json:"avatar"`
	Roles      []string   `json:"roles"`
	AuraPoints *json.Number `json:"auraPoints"`
	TrustScore *float64     `json:"trustScore"`
	CreatedAt  *time.Time   `json:"createdAt"`
	IsVerified *bool        `json:"isVerified"`
}

// DecodeIdentity parses a stored record. Documents with missing required
// fields, or fields of the wrong type, are rejected rather than filled with
// zero values.
func DecodeIdentity(data []byte) (Identity, error) {
	var s storedIdentity
	if err := json.Unmarshal(data, &s); err != nil {
		return Identity{}, fmt.Errorf("decode identity: %w", err)
	}

	missing := func(field string) (Identity, error) {
		return Identity{}, fmt.Errorf("%w: %s", ErrIncompleteIdentity, field)
	}
	switch {
	case s.ID == nil:
		return missing("id")
	case s.Name == nil:
		return missing("name")
	case s.Email == nil:
		return missing("email")
	case s.AuraPoints == nil:
		return missing("auraPoints")
	case s.TrustScore == nil:
		return missing("trustScore")
	case s.CreatedAt == nil:
		return missing("createdAt")
	}

	points, err := decodePoints(*s.AuraPoints)
	if err != nil {
		return Identity{}, err
	}

	id := Identity{
		ID:         *s.ID,
		Name:       *s.Name,
		Email:      *s.Email,
		Avatar:     s.Avatar,
		Roles:      s.Roles,
		AuraPoints: points,
		TrustScore: *s.TrustScore,
		CreatedAt:  *s.CreatedAt,
	}
	if s.IsVerified != nil {
		id.IsVerified = *s.IsVerified
	}

	if err := id.Validate(); err != nil {
		return Identity{}, err
	}
	return id, nil
}

// decodePoints reads a stored counter. Fractional values are rounded to the
// nearest whole point.
func decodePoints(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("decode identity: auraPoints %q: %w", n, err)
	}
	f = math.Round(f)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: auraPoints %s", ErrOutOfRange, n)
	}
	return int64(f), nil
}

// DemoIdentity is the fixed well-known account activated by demo sign-in.
func DemoIdentity(now time.Time) Identity {
	return Identity{
		ID:         "1",
		Name:       "Deepak Sai",
		Email:      "deepak@student.edu",
		Roles:      []string{RoleUser},
		AuraPoints: 1250,
		TrustScore: 4.8,
		CreatedAt:  now,
		IsVerified: true,
	}
}
