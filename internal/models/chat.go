package models

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of an AI advisor conversation
type Message struct {
	Role      string    `json:"role" validate:"oneof=user assistant"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
}

// ChatSession is a conversation with its messages in backend order
type ChatSession struct {
	ID        int       `json:"id" validate:"required"`
	Title     *string   `json:"title"`
	UpdatedAt Timestamp `json:"updated_at"`
	Preview   string    `json:"preview"`
	Messages  []Message `json:"messages" validate:"dive"`
}

// ChatUser identifies the owner of a chat in the chats list
type ChatUser struct {
	ID    int    `json:"id" validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChatSummary is a row of the global chats list
type ChatSummary struct {
	ID        int       `json:"id" validate:"required"`
	Title     *string   `json:"title"`
	Preview   string    `json:"preview"`
	UpdatedAt Timestamp `json:"updated_at"`
	User      ChatUser  `json:"user"`
}

// TitleOr returns the session title or the given fallback
func TitleOr(title *string, fallback string) string {
	if title == nil || *title == "" {
		return fallback
	}
	return *title
}
