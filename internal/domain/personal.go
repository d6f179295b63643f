package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the date-of-birth layout stored in PersonalInfo.DOB.
const DateLayout = "2006-01-02"

const (
	MinAge = 10
	MaxAge = 80
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like a deliverable address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// AgeOn returns the age in whole years of someone born on dob, as of now.
func AgeOn(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.Before(dob.AddDate(age, 0, 0)) {
		age--
	}
	return age
}

// AgeFromDOB parses a YYYY-MM-DD date of birth and returns the age as of now.
func AgeFromDOB(dob string, now time.Time) (int, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(dob))
	if err != nil {
		return 0, fmt.Errorf("date of birth %q: use YYYY-MM-DD", dob)
	}
	return AgeOn(t, now), nil
}
