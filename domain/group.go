package domain

type GroupID string

// Group owns its messages and a set of memberships.
// Member order carries no meaning.
type Group struct {
	ID      GroupID
	Name    string
	Members []string // user IDs
}

func (g Group) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// OtherMembers returns every member except the given user.
// Used for unread fan-out, where the sender never receives a marker.
func (g Group) OtherMembers(userID string) []string {
	var others []string
	for _, m := range g.Members {
		if m != userID {
			others = append(others, m)
		}
	}
	return others
}
