package models

// DashboardStats is the snapshot rendered on the dashboard and streamed over /ws/dashboard.
type DashboardStats struct {
	Users int `json:"users"`
	Files int `json:"files"`
}
