// Package domain holds the identifier types shared across the engine.
package domain

import (
	"github.com/google/uuid"

	dErrors "certus/pkg/domain-errors"
)

// ProfileID identifies one enterprise profile under certification.
type ProfileID uuid.UUID

// ParseProfileID parses external input into a ProfileID.
func ParseProfileID(s string) (ProfileID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ProfileID{}, dErrors.New(dErrors.CodeInvalidInput, "profile id must be a valid UUID")
	}
	return ProfileID(u), nil
}

// NewProfileID generates a fresh profile identifier.
func NewProfileID() ProfileID {
	return ProfileID(uuid.New())
}

func (p ProfileID) String() string { return uuid.UUID(p).String() }

// MarshalText lets encoders and structured logs render the UUID form.
func (p ProfileID) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *ProfileID) UnmarshalText(text []byte) error {
	parsed, err := ParseProfileID(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// IsNil reports whether the identifier is unset.
func (p ProfileID) IsNil() bool { return uuid.UUID(p) == uuid.Nil }

// CycleID identifies one certification cycle of a profile.
type CycleID uuid.UUID

// ParseCycleID parses external input into a CycleID.
func ParseCycleID(s string) (CycleID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CycleID{}, dErrors.New(dErrors.CodeInvalidInput, "cycle id must be a valid UUID")
	}
	return CycleID(u), nil
}

// NewCycleID generates a fresh cycle identifier.
func NewCycleID() CycleID {
	return CycleID(uuid.New())
}

func (c CycleID) String() string { return uuid.UUID(c).String() }

// MarshalText lets encoders and structured logs render the UUID form.
func (c CycleID) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *CycleID) UnmarshalText(text []byte) error {
	parsed, err := ParseCycleID(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// IsNil reports whether the identifier is unset.
func (c CycleID) IsNil() bool { return uuid.UUID(c) == uuid.Nil }
