package kernel

import (
	"regexp"
	"strings"
)

type Email string

// emailPattern is the standard local@domain.tld shape; anything stricter
// rejects real addresses.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NewEmail lowercases and trims the address. Candidate emails are unique
// case-insensitively, so every email entering the system goes through here.
func NewEmail(s string) Email {
	return Email(strings.ToLower(strings.TrimSpace(s)))
}

func (e Email) String() string { return string(e) }
func (e Email) IsEmpty() bool  { return string(e) == "" }
func (e Email) IsValid() bool  { return emailPattern.MatchString(string(e)) }

type Phone string

func (p Phone) String() string { return string(p) }
func (p Phone) IsEmpty() bool  { return string(p) == "" }

type FirstName string

func (n FirstName) String() string { return string(n) }

type LastName string

func (n LastName) String() string { return string(n) }

type Position string

func (p Position) String() string { return string(p) }
func (p Position) IsEmpty() bool  { return string(p) == "" }
