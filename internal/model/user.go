// Package model defines the data structures used throughout the application.
package model

import "time"

// User is an account of the agenda.
//
// The ID is supplied by the client on first contact and never generated
// here. GitHubToken holds the sealed (encrypted) access token exactly as it
// is stored; it is opened by the service layer only when a GitHub client is
// needed and is never serialized.
type User struct {
	ID             string    `json:"id"`
	GitHubUsername string    `json:"githubUsername,omitempty"`
	GitHubToken    string    `json:"-"`
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email,omitempty"`
	AvatarURL      string    `json:"avatarUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// GitHubConnected reports whether a GitHub account has been linked.
func (u *User) GitHubConnected() bool {
	return u.GitHubToken != ""
}
