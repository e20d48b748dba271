package core

type (
	// User identifies the authenticated template author.
	User struct {
		Subject string `json:"subject"`
		Name    string `json:"name"`
	}
)
