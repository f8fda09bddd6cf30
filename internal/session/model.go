package session

// Session is the authenticated state of one chat: who is logged in,
// with which role and active company, and the bearer token used for
// every API call. Cleared on logout or when the API answers 401.
type Session struct {
	ChatID    int64
	UserID    int64
	Name      string
	Email     string
	Role      Role
	CompanyID int64
	Token     string
}

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (s *Session) IsAdmin() bool { return s != nil && s.Role == RoleAdmin }
