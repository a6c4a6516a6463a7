package user

import "strings"

// FallbackAvatarPath is served when a user photo cannot be resolved or loaded.
const FallbackAvatarPath = "/avatars/avatar1.svg"

// PhotoURL resolves the stored photo value to a server path.
// Bundled avatars are stored as bare names prefixed with "avatar"; anything
// else is an uploaded file living under /storage.
func (u User) PhotoURL() string {
	photo := strings.TrimSpace(u.Photo.String)
	switch {
	case photo == "":
		return FallbackAvatarPath
	case strings.HasPrefix(photo, "avatar"):
		return "/avatars/" + photo
	case strings.HasPrefix(photo, "/") || strings.HasPrefix(photo, "http"):
		return photo
	default:
		return "/storage/" + photo
	}
}
