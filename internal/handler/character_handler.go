package handler

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/db"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/storage"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/app/store"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/auth/jwt"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/errs"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/logx"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/randx"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/req"
	"github.com/Tox-EyE-CeaZY/Haven-TTRPG/internal/pkg/resp"
)

const maxCharacterNameRunes = 100

type CreateCharacterInput struct {
	Name        string  `json:"name"`
	Nickname    *string `json:"nickname"`
	Description *string `json:"description"`
}

type PresignGalleryInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

type AttachGalleryInput struct {
	Key     string  `json:"key"`
	AltText *string `json:"altText"`
}

type PresignPhotoInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

type ConfirmPhotoInput struct {
	Key string `json:"key"`
}

// HandleCreateCharacter creates a character sheet owned by the caller.
func HandleCreateCharacter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreateCharacterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		name := strings.TrimSpace(input.Name)
		if name == "" || utf8.RuneCountInString(name) > maxCharacterNameRunes {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		character, err := deps.DB.CreateCharacter(r.Context(), store.CreateCharacterParams{
			UserID:      payload.UserID,
			Name:        name,
			Nickname:    input.Nickname,
			Description: input.Description,
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondCreated(w, r, character)
	}
}

// HandleListCharacters returns all of the caller's characters.
func HandleListCharacters(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		characters, err := deps.DB.ListCharacters(r.Context(), payload.UserID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, characters)
	}
}

// HandleGetCharacter returns one of the caller's characters with its gallery.
func HandleGetCharacter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		character, customErr := loadCharacter(deps, r, payload.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		gallery, err := deps.DB.ListGalleryImages(r.Context(), character.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"character": character,
			"gallery":   gallery,
		})
	}
}

// HandleUpdateCharacter merges the submitted fields into the character. Fields
// absent from the body stay untouched.
func HandleUpdateCharacter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		characterID, customErr := req.PathInt64(chi.URLParam(r, "characterID"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input store.CharacterUpdate
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*input.Name)) > maxCharacterNameRunes {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		character, err := deps.DB.UpdateCharacter(r.Context(), payload.UserID, characterID, input)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrCharacterNotFound))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondSuccess(w, r, character)
	}
}

// HandleDeleteCharacter removes a character and its gallery objects.
func HandleDeleteCharacter(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		character, customErr := loadCharacter(deps, r, payload.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		gallery, err := deps.DB.ListGalleryImages(r.Context(), character.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		deleted, err := deps.DB.DeleteCharacter(r.Context(), payload.UserID, character.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		if !deleted {
			resp.RespondError(w, r, errs.NewError(errs.ErrCharacterNotFound))
			return
		}

		// Storage cleanup is best effort; orphaned objects are logged, not fatal.
		for _, img := range gallery {
			if err := deps.Storage.Delete(r.Context(), img.StorageKey); err != nil {
				logx.Warn("Failed to delete gallery object", "key", img.StorageKey)
			}
		}
		if character.ProfilePhotoKey != nil {
			if err := deps.Storage.Delete(r.Context(), *character.ProfilePhotoKey); err != nil {
				logx.Warn("Failed to delete profile photo object", "key", *character.ProfilePhotoKey)
			}
		}

		resp.RespondSuccess(w, r, map[string]string{"status": "character deleted"})
	}
}

// HandlePresignProfilePhoto issues a presigned PUT URL for the character's
// profile photo.
func HandlePresignProfilePhoto(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		character, customErr := loadCharacter(deps, r, payload.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input PresignPhotoInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateImageUpload(input.MimeType, input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := randx.CharacterPhotoKey(character.ID, input.FileName)

		url, err := deps.Storage.PresignUpload(r.Context(), key, input.MimeType, input.FileSize, storage.UploadURLTTL)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"uploadUrl": url,
			"key":       key,
		})
	}
}

// HandleConfirmProfilePhoto records the uploaded profile photo after verifying
// the key belongs to this character and the object exists. A replaced photo is
// removed from storage best effort.
func HandleConfirmProfilePhoto(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		character, customErr := loadCharacter(deps, r, payload.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input ConfirmPhotoInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !strings.HasPrefix(input.Key, randx.CharacterPhotoKeyPrefix(character.ID)) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if _, err := deps.Storage.GetObjectMetadata(r.Context(), input.Key); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		updated, err := deps.DB.SetCharacterProfilePhoto(r.Context(), payload.UserID, character.ID, input.Key)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		if !updated {
			resp.RespondError(w, r, errs.NewError(errs.ErrCharacterNotFound))
			return
		}

		if character.ProfilePhotoKey != nil && *character.ProfilePhotoKey != input.Key {
			if err := deps.Storage.Delete(r.Context(), *character.ProfilePhotoKey); err != nil {
				logx.Warn("Failed to delete replaced profile photo",
					"character_id", character.ID, "key", *character.ProfilePhotoKey)
			}
		}

		resp.RespondSuccess(w, r, map[string]string{"key": input.Key})
	}
}

// HandlePresignGalleryUpload issues a presigned PUT URL for a gallery image.
func HandlePresignGalleryUpload(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		character, customErr := loadCharacter(deps, r, payload.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input PresignGalleryInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := storage.ValidateImageUpload(input.MimeType, input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		key := randx.GalleryKey(character.ID, input.FileName)

		url, err := deps.Storage.PresignUpload(r.Context(), key, input.MimeType, input.FileSize, storage.UploadURLTTL)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]string{
			"uploadUrl": url,
			"key":       key,
		})
	}
}

// HandleAttachGalleryImage records an uploaded gallery object after verifying
// the key belongs to this character and the object exists.
func HandleAttachGalleryImage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		character, customErr := loadCharacter(deps, r, payload.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input AttachGalleryInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !strings.HasPrefix(input.Key, randx.GalleryKeyPrefix(character.ID)) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if _, err := deps.Storage.GetObjectMetadata(r.Context(), input.Key); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		image, err := deps.DB.AddGalleryImage(r.Context(), payload.UserID, character.ID, input.Key, input.AltText)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		resp.RespondCreated(w, r, image)
	}
}

// HandleListGalleryImages returns the character's gallery with presigned
// download URLs resolved.
func HandleListGalleryImages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		character, customErr := loadCharacter(deps, r, payload.UserID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		gallery, err := deps.DB.ListGalleryImages(r.Context(), character.ID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		type galleryEntry struct {
			store.GalleryImage
			DownloadURL string `json:"downloadUrl,omitempty"`
		}

		entries := make([]galleryEntry, len(gallery))
		for i, img := range gallery {
			entries[i].GalleryImage = img
			if url, err := deps.Storage.PresignDownload(r.Context(), img.StorageKey, storage.DownloadURLTTL); err == nil {
				entries[i].DownloadURL = url
			}
		}

		resp.RespondSuccess(w, r, entries)
	}
}

// HandleDeleteGalleryImage removes one gallery image row and its stored object.
func HandleDeleteGalleryImage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		imageID, customErr := req.PathInt64(chi.URLParam(r, "imageID"))
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		image, err := deps.DB.GetGalleryImage(r.Context(), payload.UserID, imageID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrGalleryImageNotFound))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if _, err := deps.DB.DeleteGalleryImage(r.Context(), payload.UserID, imageID); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if err := deps.Storage.Delete(r.Context(), image.StorageKey); err != nil {
			logx.Warn("Failed to delete gallery object", "key", image.StorageKey)
		}

		resp.RespondSuccess(w, r, map[string]string{"status": "image deleted"})
	}
}

// loadCharacter resolves the {characterID} path parameter scoped to the owner.
func loadCharacter(deps *AppDeps, r *http.Request, userID int64) (*store.Character, *errs.CustomError) {
	characterID, customErr := req.PathInt64(chi.URLParam(r, "characterID"))
	if customErr != nil {
		return nil, customErr
	}

	character, err := deps.DB.GetCharacter(r.Context(), userID, characterID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, errs.NewError(errs.ErrCharacterNotFound)
		}
		return nil, errs.NewError(errs.ErrUnknown, err)
	}

	return character, nil
}
