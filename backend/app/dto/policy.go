package dto

type RenderPolicyRequest struct {
	ParentID string `json:"parent_id"`
	ClientID string `json:"client_id,omitempty"`
	MAC      string `json:"mac,omitempty"`
}

// EffectivePolicy is the fully merged, default-filled policy document served
// to a client. Computed per request, never persisted; every field has a value
// for every input combination.
type EffectivePolicy struct {
	SafeSearch        bool     `json:"safe_search"`
	KillSwitchMode    string   `json:"kill_switch_mode"`
	DNSAllowlist      []string `json:"dns_allowlist"`
	BlockedCategories []string `json:"blocked_categories"`
	ProfileID         string   `json:"profile_id,omitempty"`
	ChildID           string   `json:"child_id,omitempty"`
}
