package domain

import "time"

// CounselorRole enumerates counselor-side roles.
type CounselorRole string

const (
	CounselorRoleCounselor  CounselorRole = "COUNSELOR"
	CounselorRoleSupervisor CounselorRole = "SUPERVISOR"
	CounselorRoleAdmin      CounselorRole = "ADMIN"
)

// Counselor models an authenticated operator of the triage view.
type Counselor struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         CounselorRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Valid reports whether the role is known.
func (r CounselorRole) Valid() bool {
	switch r {
	case CounselorRoleCounselor, CounselorRoleSupervisor, CounselorRoleAdmin:
		return true
	}
	return false
}

// Rank orders roles by privilege; unknown roles rank zero.
func (r CounselorRole) Rank() int {
	switch r {
	case CounselorRoleCounselor:
		return 1
	case CounselorRoleSupervisor:
		return 2
	case CounselorRoleAdmin:
		return 3
	}
	return 0
}

// AtLeast reports whether r carries at least the privileges of min.
func (r CounselorRole) AtLeast(min CounselorRole) bool {
	return r.Rank() > 0 && r.Rank() >= min.Rank()
}
