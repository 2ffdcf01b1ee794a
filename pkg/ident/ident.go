// Package ident defines the core data model of the pipeline: raw
// transaction records, calendar months, and the merged district-month
// table every analytical module consumes.
//
// The three record categories (biometric, demographic, enrolment) share a
// common row shape and are merged on the (state, district, month) key.
package ident

import (
	"fmt"
	"strings"
)

// Category identifies one of the three transaction record streams.
type Category string

const (
	Biometric   Category = "biometric"
	Demographic Category = "demographic"
	Enrolment   Category = "enrolment"
)

// Categories lists all required categories in canonical order.
var Categories = []Category{Biometric, Demographic, Enrolment}

func (c Category) String() string {
	return string(c)
}

// NewCategory converts a string to a Category. The match is
// case-insensitive and surrounding whitespace is ignored.
func NewCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case Biometric:
		return Biometric, nil
	case Demographic:
		return Demographic, nil
	case Enrolment:
		return Enrolment, nil
	}
	return "", fmt.Errorf("unknown category '%s'", s)
}
