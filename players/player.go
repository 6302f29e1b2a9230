// Package players holds the authentication principal (Player) and the root
// per-player game entity (Empire). Session/credential verification itself is
// an external collaborator (§1); this package only stores what the engine
// needs to authorize and own state.
package players

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Permission is a coarse capability grant. Admins may force-advance turns
// (§6 `/game/advance-turn`) and reset empires; moderators may read any
// empire for support purposes but cannot mutate game state on a player's
// behalf.
type Permission string

const (
	PermissionAdmin     Permission = "admin"
	PermissionModerator Permission = "moderator"
)

// Profile holds player-chosen display data, separate from credentials so it
// can be read by unauthenticated leaderboard/profile views (out of scope
// here, but the split keeps that possible).
type Profile struct {
	DisplayName string `bson:"displayName"`
	Bio         string `bson:"bio"`
}

// Settings holds player preferences that don't affect game-balance.
type Settings struct {
	Notifications bool `bson:"notifications"`
}

// Player is the authentication principal. It owns zero or one Empire.
// Players are never hard-deleted while they own an empire (§3); Deactivate
// only flips IsActive so that history/audit trails referencing the player id
// stay valid.
type Player struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Credentials Credentials   `bson:"credentials"`
	Permissions []Permission  `bson:"permissions,omitempty"`
	Profile     Profile       `bson:"profile"`
	Settings    Settings      `bson:"settings"`
	IsActive    bool          `bson:"isActive"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

// Credentials holds the login identity. Password hashing/verification is
// handled by the external auth collaborator (§1); only the hash is stored
// here.
type Credentials struct {
	Username     string `bson:"username"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"passwordHash"`
}

// HasPermission reports whether the player holds the given permission.
func (p *Player) HasPermission(perm Permission) bool {
	for _, g := range p.Permissions {
		if g == perm {
			return true
		}
	}
	return false
}

// Deactivate soft-deactivates the player. Per §3 a player that owns an
// empire is never hard-deleted, so this is the only removal path.
func (p *Player) Deactivate(now time.Time) {
	p.IsActive = false
	p.UpdatedAt = now
}
