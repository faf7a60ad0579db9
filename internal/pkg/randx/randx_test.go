package randx

import (
	"strings"
	"testing"
)

func TestAvatarKey(t *testing.T) {
	key := AvatarKey(42, "Portrait.PNG")

	if !strings.HasPrefix(key, AvatarKeyPrefix(42)) {
		t.Fatalf("key %q not under the user's avatar prefix", key)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("key %q did not keep a lower-cased extension", key)
	}
	if key == AvatarKey(42, "Portrait.PNG") {
		t.Fatal("two keys for the same file collided")
	}
}

func TestGalleryKey(t *testing.T) {
	key := GalleryKey(7, "scene.jpg")

	if !strings.HasPrefix(key, GalleryKeyPrefix(7)) {
		t.Fatalf("key %q not under the character's gallery prefix", key)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("key %q did not keep the extension", key)
	}
}

func TestCharacterPhotoKey(t *testing.T) {
	key := CharacterPhotoKey(7, "headshot.webp")

	if !strings.HasPrefix(key, CharacterPhotoKeyPrefix(7)) {
		t.Fatalf("key %q not under the character's photo prefix", key)
	}
	if strings.HasPrefix(key, GalleryKeyPrefix(7)) {
		t.Fatalf("key %q landed in the gallery namespace", key)
	}
	if !strings.HasSuffix(key, ".webp") {
		t.Fatalf("key %q did not keep the extension", key)
	}
}

func TestNormalizedExt(t *testing.T) {
	tests := []struct {
		fileName string
		want     string
	}{
		{"photo.JPG", ".jpg"},
		{"archive.tar.gz", ".gz"},
		{"noext", ""},
		{"trailingdot.", ""},
	}
	for _, tt := range tests {
		if got := normalizedExt(tt.fileName); got != tt.want {
			t.Errorf("normalizedExt(%q) = %q, want %q", tt.fileName, got, tt.want)
		}
	}
}
