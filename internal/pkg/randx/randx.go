/*
Package randx provides helpers for generating unique object-storage keys and identifiers.

Keys are built from UUIDs so concurrent uploads by the same user can never collide,
and the original file extension is preserved for content-type inference.
*/
package randx

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AvatarKey builds the storage key for a user avatar upload.
// Layout: avatars/<user_id>/<uuid><ext>.
func AvatarKey(userID int64, fileName string) string {
	return fmt.Sprintf("avatars/%d/%s%s", userID, uuid.New().String(), normalizedExt(fileName))
}

// AvatarKeyPrefix returns the key prefix every avatar of the user lives under.
// Used to verify a client-reported key actually belongs to the caller.
func AvatarKeyPrefix(userID int64) string {
	return fmt.Sprintf("avatars/%d/", userID)
}

// GalleryKey builds the storage key for a character gallery image.
// Layout: characters/<character_id>/gallery/<uuid><ext>.
func GalleryKey(characterID int64, fileName string) string {
	return fmt.Sprintf("characters/%d/gallery/%s%s", characterID, uuid.New().String(), normalizedExt(fileName))
}

// GalleryKeyPrefix returns the key prefix of one character's gallery objects.
func GalleryKeyPrefix(characterID int64) string {
	return fmt.Sprintf("characters/%d/gallery/", characterID)
}

// CharacterPhotoKey builds the storage key for a character profile photo.
// Layout: characters/<character_id>/profile/<uuid><ext>.
func CharacterPhotoKey(characterID int64, fileName string) string {
	return fmt.Sprintf("characters/%d/profile/%s%s", characterID, uuid.New().String(), normalizedExt(fileName))
}

// CharacterPhotoKeyPrefix returns the key prefix of one character's profile photos.
func CharacterPhotoKeyPrefix(characterID int64) string {
	return fmt.Sprintf("characters/%d/profile/", characterID)
}

// normalizedExt returns the lower-cased file extension including the leading dot,
// or an empty string when the name carries none.
func normalizedExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if len(ext) < 2 {
		return ""
	}
	return ext
}
