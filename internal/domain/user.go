package domain

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Country   string `json:"country"`
	State     string `json:"state"`
	City      string `json:"city"`
	CreatedAt string `json:"createdAt"`
}

// Credential lives under its own key, apart from the User profile.
// The password is opaque plaintext; a documented weakness of this system,
// out of scope to fix.
type Credential struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
