package lifecycle

import "strings"

// ConfirmField is the form field carrying an operator's delete confirmation.
const ConfirmField = "confirm"

// Confirmation records that an operator explicitly confirmed a destructive action.
// The zero value is unconfirmed.
type Confirmation struct {
	confirmed bool
}

// Confirm returns a confirmed Confirmation.
func Confirm() Confirmation { return Confirmation{confirmed: true} }

// ParseConfirmation accepts only the explicit "yes" value a confirm dialog submits.
func ParseConfirmation(value string) Confirmation {
	return Confirmation{confirmed: strings.EqualFold(strings.TrimSpace(value), "yes")}
}

// IsConfirmed reports whether the action was confirmed.
func (c Confirmation) IsConfirmed() bool { return c.confirmed }
