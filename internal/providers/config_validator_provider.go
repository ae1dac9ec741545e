package providers

import (
	"errors"
	"fmt"
	"playtrack/internal/models"
	"playtrack/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate applies the struct tag rules, then the cross-field checks tags cannot express.
func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}

	if cv.conf.Scheduler.Enabled && (cv.conf.Scheduler.IngestInterval <= 0 || cv.conf.Scheduler.SummaryInterval <= 0) {
		return errors.New("scheduler intervals must be positive when the scheduler is enabled")
	}
	if cv.conf.Persistence.BackupPath != "" && cv.conf.Persistence.SaveInterval <= 0 {
		return errors.New("persistence.saveInterval must be positive when backups are enabled")
	}
	if cv.conf.ReferenceDate != "" {
		if _, err := models.ParseDate(cv.conf.ReferenceDate); err != nil {
			return fmt.Errorf("referenceDate: %w", err)
		}
	}
	return nil
}
