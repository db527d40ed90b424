package providers

import (
	"errors"
	"fmt"
	"votekiosk/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	v.StopOnError = false
	if !v.Validate() {
		return errors.New(v.Errors.String())
	}
	if cv.conf.Capture.FaceCheck && cv.conf.Capture.DetectorURL == "" {
		return errors.New("capture.detectorUrl is required when capture.faceCheck is enabled")
	}
	return cv.validateParties()
}

func (cv *CnfValidator) validateParties() error {
	if len(cv.conf.Parties) == 0 {
		return errors.New("parties: at least one party is required")
	}
	seen := make(map[int]struct{}, len(cv.conf.Parties))
	for i, p := range cv.conf.Parties {
		if p.ID <= 0 {
			return fmt.Errorf("parties[%d]: id must be positive", i)
		}
		if p.Name == "" {
			return fmt.Errorf("parties[%d]: name is required", i)
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("parties[%d]: duplicate id %d", i, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
