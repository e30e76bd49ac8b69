package models

// Credentials is what the login form sends, form-encoded
type Credentials struct {
	Username string `url:"username"`
	Password string `url:"password"`
}

// AccessToken is returned by login and impersonation
type AccessToken struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest creates a new admin account
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// AdminProfile is the signed-in admin as reported by /admin/auth/me
type AdminProfile struct {
	ID        int       `json:"id" validate:"required"`
	Email     string    `json:"email" validate:"required"`
	FullName  *string   `json:"full_name"`
	CreatedAt Timestamp `json:"created_at"`
}

// NotificationRequest is a push notification to all or selected users
type NotificationRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	SendToAll bool   `json:"send_to_all"`
	UserIDs   []int  `json:"user_ids,omitempty"`
}

// NotificationResult is the backend acknowledgement of a send
type NotificationResult struct {
	Message string `json:"message"`
}
