package constants

const (
	RolePurposeSubscriber     = "subscriber"
	RolePurposePremium        = "premium"
	RolePurposeFoundingMember = "founding-member"
	RolePurposeBetaTester     = "beta-tester"
)

func KnownRolePurposes() []string {
	return []string{
		RolePurposeSubscriber,
		RolePurposePremium,
		RolePurposeFoundingMember,
		RolePurposeBetaTester,
	}
}

// IsKnownRolePurpose reports whether the purpose has a configured role mapping.
func IsKnownRolePurpose(purpose string) bool {
	for _, p := range KnownRolePurposes() {
		if p == purpose {
			return true
		}
	}
	return false
}
