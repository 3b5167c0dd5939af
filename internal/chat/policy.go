package chat

import (
	"strings"

	"github.com/irobinett3/footy-social/internal/models"
)

// Policy reports whether the user may join the room. The coordinator
// consumes the result as a plain boolean; it never computes
// eligibility itself.
type Policy func(user *models.User, room *models.Room) bool

// FavoriteTeamPolicy is the stock eligibility rule: global rooms are
// open to every signed-in user, team rooms require the user's favorite
// team to match the room's team. With enforce false every room is
// open.
func FavoriteTeamPolicy(enforce bool) Policy {
	return func(user *models.User, room *models.Room) bool {
		if user == nil || room == nil {
			return false
		}
		if !enforce || room.IsGlobal {
			return true
		}
		favorite := strings.ToLower(strings.TrimSpace(user.FavoriteTeam))
		if favorite == "" {
			return false
		}
		return strings.ToLower(strings.TrimSpace(room.TeamName)) == favorite
	}
}

// OpenPolicy admits everyone. Used for open rooms such as live-match
// chat where the backend applies no membership rule.
func OpenPolicy() Policy {
	return func(user *models.User, room *models.Room) bool {
		return user != nil && room != nil
	}
}
