package models

type NotificationCounts struct {
	ConnectionRequests int `json:"connection_requests"`
	TeamInvitations    int `json:"team_invitations"`
	JoinRequests       int `json:"join_requests"`
	Total              int `json:"total"`
}
