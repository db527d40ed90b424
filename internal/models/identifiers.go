package models

import (
	"fmt"
	"strings"

	"github.com/gookit/validate"
)

// Identifiers are the two externally issued ids typed in by the voter.
type Identifiers struct {
	UniqueID string `json:"unique_id" validate:"required|maxLen:128"`
	ECID     string `json:"ec_id" validate:"required|maxLen:128"`
}

func NewIdentifiers(uniqueID, ecID string) Identifiers {
	return Identifiers{
		UniqueID: strings.TrimSpace(uniqueID),
		ECID:     strings.TrimSpace(ecID),
	}
}

func (i Identifiers) Validate() error {
	v := validate.Struct(&i)
	if !v.Validate() {
		return fmt.Errorf("%w: %s", ErrInvalidIdentifiers, v.Errors.One())
	}
	return nil
}
