package domain

import (
	"slices"
	"time"
)

type Member struct {
	ID             string    `json:"userID"`
	Name           string    `json:"name"`
	Mobile         string    `json:"mobileNumber"`
	ItemIDs        []string  `json:"bookIDs"`
	TransactionIDs []string  `json:"transactions"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// MemberDetails is what a member sees about their own standing.
type MemberDetails struct {
	Member     Member  `json:"user"`
	TotalItems int     `json:"totalBooksIssued"`
	Summary    Summary `json:"summary"`
}

// Clone returns a copy that shares no slices with m.
func (m Member) Clone() Member {
	m.ItemIDs = slices.Clone(m.ItemIDs)
	m.TransactionIDs = slices.Clone(m.TransactionIDs)
	return m
}
