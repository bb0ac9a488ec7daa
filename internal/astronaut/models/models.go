package models

import (
	"time"

	"stargate/pkg/platform/strings"
)

// RetiredTitle marks the duty that ends a career. Matched case-insensitively.
const RetiredTitle = "RETIRED"

// Person is created once and never mutated. NameKey is the folded comparison key
// and is unique across people.
type Person struct {
	ID        int64
	Name      string
	NameKey   string
	CreatedAt time.Time
}

// NewPerson normalizes name and derives its key. Callers check for blank names first.
func NewPerson(name string, now time.Time) *Person {
	normalized := strings.NormalizeNameOrTitle(name)
	return &Person{
		Name:      normalized,
		NameKey:   strings.FoldKey(normalized),
		CreatedAt: now.UTC(),
	}
}

// AstronautDetail is the per-person career summary, absent until the first duty.
type AstronautDetail struct {
	ID              int64
	PersonID        int64
	CareerStartDate time.Time
	CareerEndDate   *time.Time
}

// Clone returns a deep copy so plans can be computed without mutating loaded state.
func (d *AstronautDetail) Clone() *AstronautDetail {
	if d == nil {
		return nil
	}
	c := *d
	if d.CareerEndDate != nil {
		end := *d.CareerEndDate
		c.CareerEndDate = &end
	}
	return &c
}

// AstronautDuty is one assignment in a person's ledger. A nil DutyEndDate means open-ended.
type AstronautDuty struct {
	ID            int64
	PersonID      int64
	Rank          string
	DutyTitle     string
	DutyStartDate time.Time
	DutyEndDate   *time.Time
}

// IsOpen reports whether the duty has no end date.
func (d *AstronautDuty) IsOpen() bool {
	return d.DutyEndDate == nil
}

// Covers reports whether day falls in [start, end], treating an open end as unbounded.
func (d *AstronautDuty) Covers(day time.Time) bool {
	if day.Before(d.DutyStartDate) {
		return false
	}
	return d.DutyEndDate == nil || !day.After(*d.DutyEndDate)
}

// IsRetirement reports whether the duty title is the retirement marker.
func (d *AstronautDuty) IsRetirement() bool {
	return IsRetirementTitle(d.DutyTitle)
}

// SameAssignment reports whether rank and title match case-insensitively.
func (d *AstronautDuty) SameAssignment(rank, title string) bool {
	return strings.EqualFold(d.Rank, rank) && strings.EqualFold(d.DutyTitle, title)
}

// Clone returns a deep copy.
func (d *AstronautDuty) Clone() *AstronautDuty {
	c := *d
	if d.DutyEndDate != nil {
		end := *d.DutyEndDate
		c.DutyEndDate = &end
	}
	return &c
}

// IsRetirementTitle reports whether title is RETIRED, ignoring case and whitespace.
func IsRetirementTitle(title string) bool {
	return strings.EqualFold(title, RetiredTitle)
}

// PersonAstronaut is the read projection of a person with their current assignment.
// Empty CurrentRank/CurrentDutyTitle mean no duty is active today.
type PersonAstronaut struct {
	PersonID         int64
	Name             string
	CurrentRank      string
	CurrentDutyTitle string
	CareerStartDate  *time.Time
	CareerEndDate    *time.Time
}

// CreateDutyCommand is the input to duty creation.
type CreateDutyCommand struct {
	Name          string
	Rank          string
	DutyTitle     string
	DutyStartDate time.Time
}

// Normalize canonicalizes the free-text fields and truncates the start date.
func (c *CreateDutyCommand) Normalize() {
	c.Name = strings.NormalizeNameOrTitle(c.Name)
	c.Rank = strings.NormalizeNameOrTitle(c.Rank)
	c.DutyTitle = strings.NormalizeNameOrTitle(c.DutyTitle)
	c.DutyStartDate = Day(c.DutyStartDate)
}

// IsRetirement reports whether the command assigns the retirement marker.
func (c *CreateDutyCommand) IsRetirement() bool {
	return IsRetirementTitle(c.DutyTitle)
}
