package session

import "github.com/MKhiriev/apk-portal/models"

// Command is a request to change the session state.
type Command interface {
	command() string
}

// Login authenticates with a username and password.
type Login struct {
	Username string
	Password string
}

// Logout ends the session. It is accepted in every state.
type Logout struct{}

// LoadList fetches the build list of the current session.
type LoadList struct{}

// Download saves the build identified by Key to the download directory.
type Download struct {
	Key models.BuildKey
}

func (Login) command() string    { return "login" }
func (Logout) command() string   { return "logout" }
func (LoadList) command() string { return "load_list" }
func (Download) command() string { return "download" }
