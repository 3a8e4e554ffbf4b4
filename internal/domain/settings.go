package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultDateOfEMI = 16

// ClubSettings is the single club-wide configuration record.
type ClubSettings struct {
	AdminMemberIDs              []string        `json:"adminUserID"`
	InterestPerMonth            decimal.Decimal `json:"interestPerMonth"`
	DefaultPrincipalAmount      decimal.Decimal `json:"defaultPrincipalAmount"`
	CurrentTotalPrincipalAmount decimal.Decimal `json:"currentTotalPrincipalAmount"`
	DateOfEMI                   int             `json:"dateOfEMI"`
	UpdatedAt                   time.Time       `json:"updatedAt"`
}

func (s *ClubSettings) IsAdmin(memberID string) bool {
	for _, id := range s.AdminMemberIDs {
		if id == memberID {
			return true
		}
	}
	return false
}
