package domain

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

const (
	// MinUsernameLen and MaxUsernameLen bound the trimmed display name.
	MinUsernameLen = 1
	MaxUsernameLen = 50
)

var colors = []string{"red", "blue", "green", "purple", "orange", "teal"}

// User is the ephemeral identity handed out when a client enters a room.
// It lives exactly as long as its room membership; display names are not
// unique, presence is keyed by the generated ID.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
	Color    string `json:"color"`
}

// NewUser creates a user for the given display name. The name is trimmed;
// length validation happens at the protocol boundary, generation itself
// never fails.
func NewUser(username string) User {
	return User{
		ID:       uuid.New().String(),
		Username: strings.TrimSpace(username),
		Avatar:   randomAvatar(),
		Color:    randomColor(),
	}
}

// ValidUsername reports whether the trimmed display name is within bounds.
func ValidUsername(username string) bool {
	n := len(strings.TrimSpace(username))
	return n >= MinUsernameLen && n <= MaxUsernameLen
}

func randomColor() string {
	return colors[rand.Intn(len(colors))]
}

func randomAvatar() string {
	return fmt.Sprintf("https://api.dicebear.com/6.x/avataaars/svg?seed=%d", rand.Int63())
}
