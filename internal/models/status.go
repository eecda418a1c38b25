package models

import (
	"slices"
	"strings"

	"portal/internal/apperrors"
)

type Kind string

const (
	KindPension       Kind = "pension"
	KindFamilyPension Kind = "family-pension"
	KindContact       Kind = "contact"
)

var Kinds = []Kind{KindPension, KindFamilyPension, KindContact}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"

	StatusUnread  Status = "unread"
	StatusRead    Status = "read"
	StatusReplied Status = "replied"
)

var (
	applicationStatuses = []Status{StatusPending, StatusApproved, StatusRejected}
	contactStatuses     = []Status{StatusUnread, StatusRead, StatusReplied}
)

func ParseKind(s string) (Kind, bool) {
	kind := Kind(strings.ToLower(strings.TrimSpace(s)))
	return kind, kind.Valid()
}

func (k Kind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// Statuses returns the legal values for the kind in display order.
func (k Kind) Statuses() []Status {
	switch k {
	case KindPension, KindFamilyPension:
		return slices.Clone(applicationStatuses)
	case KindContact:
		return slices.Clone(contactStatuses)
	default:
		return nil
	}
}

func (k Kind) DefaultStatus() Status {
	if k == KindContact {
		return StatusUnread
	}
	return StatusPending
}

func (k Kind) Allows(status Status) bool {
	return slices.Contains(k.Statuses(), status)
}

func (k Kind) Label() string {
	switch k {
	case KindPension:
		return "Pension"
	case KindFamilyPension:
		return "Family Pension"
	case KindContact:
		return "Contact"
	default:
		return string(k)
	}
}

// ParseStatus validates a raw status against the kind's legal set.
func (k Kind) ParseStatus(raw string) (Status, error) {
	status := Status(strings.TrimSpace(raw))
	if !k.Allows(status) {
		return "", apperrors.InvalidStatus(raw)
	}
	return status, nil
}

// ValidateTransition checks a status change for kind. The machine is flat:
// any legal status may follow any other, including itself, and no state is
// terminal. Only the target is constrained.
func ValidateTransition(kind Kind, from, to Status) error {
	if !kind.Valid() {
		return apperrors.InvalidStatus(string(to))
	}
	if !kind.Allows(to) {
		return apperrors.InvalidStatus(string(to))
	}
	return nil
}
