// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityMember                      // Access token of an active member
	SecurityAdmin                       // Access token of a club admin
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Probes - Public
	"Health":    SecurityPublic,
	"Readiness": SecurityPublic,
	"Metrics":   SecurityPublic,

	// Member self-service
	"GetMemberDetails": SecurityMember,
	"ListMemberItems":  SecurityMember,
	"GetItemHistory":   SecurityMember,

	// Admin - members
	"ListMembers":        SecurityAdmin,
	"CreateMember":       SecurityAdmin,
	"UpdateMember":       SecurityAdmin,
	"GetMemberSummary":   SecurityAdmin,
	"ToggleMemberActive": SecurityAdmin,
	"ToggleAdmin":        SecurityAdmin,
	"ToggleItemIssued":   SecurityAdmin,

	// Admin - items and transactions
	"ListItems":            SecurityAdmin,
	"ListItemTransactions": SecurityAdmin,
	"CreateTransaction":    SecurityAdmin,
	"UpdateTransaction":    SecurityAdmin,
	"DeleteTransaction":    SecurityAdmin,

	// Admin - club settings and cache
	"GetSettings":      SecurityAdmin,
	"UpdateSettings":   SecurityAdmin,
	"AccruePrincipal":  SecurityAdmin,
	"GetCacheSnapshot": SecurityAdmin,
	"ReloadCache":      SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAdmin
}
