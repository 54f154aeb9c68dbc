package domain

// Session is the authenticated player's state as held by the client.
type Session struct {
	UserID  string `json:"userId"`
	Tickets int    `json:"tickets"`
}
