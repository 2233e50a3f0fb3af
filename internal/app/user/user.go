/*
Package user contains the roster entry type of the chat client.

It defines the Profile struct shown in the roster and the deterministic avatar
derivation used to decorate a user's messages.
*/
package user

import "net/url"

// Avatars are served by DiceBear; the name is the seed.
const (
	avatarPrefix = "https://avatars.dicebear.com/api/adventurer-neutral/"
	avatarSuffix = ".svg"
)

// Profile is one entry of the roster.
// Fields use JSON tags so the inspector can serve roster snapshots directly.
type Profile struct {
	// Name is the username as announced by the server.
	Name string `json:"name"`

	// Avatar is derived from Name with AvatarURL.
	Avatar string `json:"avatar"`
}

// NewProfile builds the Profile for name.
func NewProfile(name string) Profile {
	return Profile{Name: name, Avatar: AvatarURL(name)}
}

// AvatarURL returns the avatar for name. The same name always yields the same URL.
func AvatarURL(name string) string {
	return avatarPrefix + url.PathEscape(name) + avatarSuffix
}
