package domain

import (
	"errors"
	"fmt"
	"time"
)

// NotFoundError reports a missing policy, supplier, demand entry or
// opening-stock row. It is fatal to the run in progress.
type NotFoundError struct {
	Entity string
	ID     string
	Date   time.Time
}

func (e *NotFoundError) Error() string {
	if e.Date.IsZero() {
		return fmt.Sprintf("%s not found for %q", e.Entity, e.ID)
	}
	return fmt.Sprintf("%s not found for %q on %s", e.Entity, e.ID, e.Date.Format(DateFormat))
}

// DateRangeError reports a simulation window that is inverted or exceeds the
// coverage of the demand series.
type DateRangeError struct {
	ProductID     string
	Start, End    time.Time
	CoverageStart time.Time
	CoverageEnd   time.Time
	Reason        string
}

func (e *DateRangeError) Error() string {
	msg := fmt.Sprintf("invalid date range %s to %s", e.Start.Format(DateFormat), e.End.Format(DateFormat))
	if e.ProductID != "" {
		msg += fmt.Sprintf(" for %q", e.ProductID)
	}
	if !e.CoverageStart.IsZero() {
		msg += fmt.Sprintf(": outside coverage %s to %s",
			e.CoverageStart.Format(DateFormat), e.CoverageEnd.Format(DateFormat))
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// ValidationError reports a malformed or duplicated policy/supplier row.
type ValidationError struct {
	Entity string
	ID     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Entity, e.ID, e.Reason)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDateRange reports whether err wraps a DateRangeError.
func IsDateRange(err error) bool {
	var dr *DateRangeError
	return errors.As(err, &dr)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
