package model

import "time"

// Action types recorded in the user_history table. The column is a
// free-form string so new action types can be added without a
// migration; these constants cover every action the server itself
// writes.
const (
	ActionVisit             = "visit"
	ActionLogin             = "login"
	ActionLogout            = "logout"
	ActionCampaignGenerated = "campaign_generated"
	ActionPitchGenerated    = "pitch_generated"
	ActionLeadScored        = "lead_scored"
	ActionHistoryCleared    = "history_cleared"
	ActionPasswordReset     = "password_reset"
)

// Metadata is the structured payload attached to a history entry. It
// is serialized to JSON on write and must round-trip nested values
// unchanged. Known action payloads are built through the constructor
// helpers below; arbitrary maps are accepted for forward
// compatibility.
type Metadata map[string]any

// CampaignMetadata describes a campaign_generated entry.
func CampaignMetadata(product, audience, platform, result string) Metadata {
	return Metadata{"product": product, "audience": audience, "platform": platform, "result": result}
}

// PitchMetadata describes a pitch_generated entry.
func PitchMetadata(product, persona, result string) Metadata {
	return Metadata{"product": product, "persona": persona, "result": result}
}

// LeadMetadata describes a lead_scored entry.
func LeadMetadata(name, budget, need, urgency, result string) Metadata {
	return Metadata{"name": name, "budget": budget, "need": need, "urgency": urgency, "result": result}
}

// HistoryEntry mirrors a row of the `user_history` table. Entries are
// append-only: they are created once and never updated. Every read or
// delete is scoped by UserID; an entry is visible only to its owner.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owner of the entry (FK to users, cascade delete).
//  PageURL    – URL of the page or endpoint that produced the entry.
//  PageTitle  – human-readable page title (may be empty).
//  ActionType – one of the Action* constants above.
//  Metadata   – optional structured payload (nil when absent).
//  Timestamp  – when the action happened.
//  IPAddress  – client IP at the time of the action (may be empty).
//  UserAgent  – client user agent (may be empty).
type HistoryEntry struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	PageURL    string    `json:"page_url"`
	PageTitle  string    `json:"page_title"`
	ActionType string    `json:"action_type"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
}
