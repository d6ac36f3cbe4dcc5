// Package analytics computes click statistics for aliases, topics and owners.
package analytics

import (
	"errors"
	"fmt"

	"github.com/abhms/alter/internal/model"
)

// ErrInvalidClickRecord is returned when a click record is missing a required field.
var ErrInvalidClickRecord = errors.New("invalid click record")

// ValidateClickRecord checks the fields every stored click must carry.
func ValidateClickRecord(record *model.ClickRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidClickRecord)
	}
	if record.ShortURL == "" {
		return fmt.Errorf("%w: short_url is required", ErrInvalidClickRecord)
	}
	if record.UserAgent == "" {
		return fmt.Errorf("%w: user_agent is required", ErrInvalidClickRecord)
	}
	if record.IPAddress == "" {
		return fmt.Errorf("%w: ip_address is required", ErrInvalidClickRecord)
	}
	return nil
}
