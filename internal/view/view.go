// Package view tracks which audience view each visitor is looking at.
package view

import (
	"errors"
	"fmt"
	"strings"
)

// View is an audience-tailored presentation of the portfolio.
type View string

// The zero value None is the home view.
const (
	None      View = ""
	Recruiter View = "recruiter"
	Developer View = "developer"
	Client    View = "client"
	All       View = "all"
)

// ErrUnknownView is returned by ParseView for identifiers outside the enum.
var ErrUnknownView = errors.New("unknown view")

// Views lists every view, None first.
var Views = []View{None, Recruiter, Developer, Client, All}

// ParseView maps an identifier to a View. The empty string, "none" and "home"
// all mean None.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case None, "none", "home":
		return None, nil
	case Recruiter, Developer, Client, All:
		return v, nil
	default:
		return None, fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
}

// String returns the identifier sent to analytics and clients.
func (v View) String() string {
	if v == None {
		return "none"
	}
	return string(v)
}
