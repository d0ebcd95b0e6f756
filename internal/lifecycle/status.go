// Package lifecycle moves admin-managed records between the statuses their resource declares.
package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

// Status is a named lifecycle value of a record.
type Status string

// Status values used across resources.
const (
	StatusPending     Status = "pending"
	StatusConfirmed   Status = "confirmed"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusReviewing   Status = "reviewing"
	StatusInterviewed Status = "interviewed"
	StatusRejected    Status = "rejected"
	StatusHired       Status = "hired"
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
)

// ErrInvalidStatus is returned for a status outside the resource enumeration.
var ErrInvalidStatus = errors.New("lifecycle: status not allowed for resource")

func (s Status) String() string { return string(s) }

// Enumeration is the ordered, closed set of statuses a resource accepts.
type Enumeration struct {
	values []Status
}

// NewEnumeration builds an enumeration, dropping duplicates while keeping order.
func NewEnumeration(values ...Status) Enumeration {
	seen := make(map[Status]struct{}, len(values))
	out := make([]Status, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return Enumeration{values: out}
}

// Options lists the statuses presented to operators.
func (e Enumeration) Options() []Status {
	out := make([]Status, len(e.values))
	copy(out, e.values)
	return out
}

// Contains reports membership.
func (e Enumeration) Contains(s Status) bool {
	for _, v := range e.values {
		if v == s {
			return true
		}
	}
	return false
}

// Parse converts submitted text into a member of the enumeration.
func (e Enumeration) Parse(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !e.Contains(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}
