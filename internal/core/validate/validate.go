// Package validate provides input checks shared by the CLI and the forms.
package validate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/callbell/internal/core/phone"
	"github.com/colonyops/callbell/internal/core/settings"
)

// CallID checks that id is a positive integer, the form the backend uses.
func CallID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("call id is required")
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return fmt.Errorf("call id must be a positive number, got %q", id)
	}
	return nil
}

// CallIDField returns a criterio validator for call ids.
func CallIDField(field, id string) error {
	return criterio.Run(field, id, CallID)
}

// Volume checks a textual volume in [0, settings.MaxVolume].
func Volume(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("volume must be a whole number")
	}
	if v < 0 || v > settings.MaxVolume {
		return fmt.Errorf("volume must be between 0 and %d", settings.MaxVolume)
	}
	return nil
}

// Phone checks that s can be dialed.
func Phone(s string) error {
	if _, err := phone.Normalize(s); err != nil {
		return err
	}
	return nil
}

// PhoneField returns a criterio validator for phone numbers.
func PhoneField(field, s string) error {
	return criterio.Run(field, s, Phone)
}
