package entity

// User is the identity returned by the auth endpoints.
type User struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// Session is the authenticated identity plus bearer token held by the client.
// It is replaced wholesale, never patched.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Valid reports whether the session can be used to call the order API.
func (s Session) Valid() bool {
	return s.Token != ""
}
