package events

import "time"

const authTypePrefix = "AUTH_"

// Auth builds the audit record of a session transition such as SIGNED_IN.
// userID and provider are left out when empty.
func Auth(label, sessionID, userID, provider string, at time.Time) BaseEvent {
	data := map[string]interface{}{
		"session_id": sessionID,
	}
	if userID != "" {
		data["user_id"] = userID
	}
	if provider != "" {
		data["provider"] = provider
	}
	return BaseEvent{
		Type:       authTypePrefix + label,
		Data:       data,
		OccurredAt: at,
	}
}
