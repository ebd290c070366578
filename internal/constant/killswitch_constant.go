// FILE: internal/constant/killswitch_constant.go
package constant

// KillSwitch names a flag key reserved for emergency feature cutoff.
// The set is closed; bootstrap validates each one against the flag store
// at startup so a typo never silently becomes an always-deny flag.
type KillSwitch string

const (
	KillSwitchAIFeatures  KillSwitch = "ai_features"
	KillSwitchGenerations KillSwitch = "vault_generations"
	KillSwitchTeamSharing KillSwitch = "team_sharing"
)

// AllKillSwitches lists every reserved kill-switch key.
func AllKillSwitches() []KillSwitch {
	return []KillSwitch{
		KillSwitchAIFeatures,
		KillSwitchGenerations,
		KillSwitchTeamSharing,
	}
}
