package store

import (
	"context"
	"fmt"
)

const characterColumns = `id, user_id, name, nickname, description, profile_photo_key,
	design, abilities, lore, birthday, interests, disinterests, home_world, universe,
	time_period, main_weapon, armor_attire, key_items, general_inventory, created_at, updated_at`

// CreateCharacterParams carries the fields accepted on character creation. Only
// Name is mandatory; everything else starts empty and is filled in via updates.
type CreateCharacterParams struct {
	UserID      int64
	Name        string
	Nickname    *string
	Description *string
}

// CreateCharacter inserts a character sheet and returns the stored row.
func (q *Queries) CreateCharacter(ctx context.Context, arg CreateCharacterParams) (*Character, error) {
	query := `
		INSERT INTO characters (user_id, name, nickname, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + characterColumns

	row := q.pool.QueryRow(ctx, query, arg.UserID, arg.Name, arg.Nickname, arg.Description)
	c, err := scanCharacter(row)
	if err != nil {
		return nil, fmt.Errorf("create character: %w", err)
	}
	return c, nil
}

// GetCharacter fetches one character scoped to its owner. Other users' characters
// are indistinguishable from missing ones.
func (q *Queries) GetCharacter(ctx context.Context, userID, characterID int64) (*Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE id = $1 AND user_id = $2`

	row := q.pool.QueryRow(ctx, query, characterID, userID)
	c, err := scanCharacter(row)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCharacters returns all of the user's characters, newest first.
func (q *Queries) ListCharacters(ctx context.Context, userID int64) ([]Character, error) {
	query := `SELECT ` + characterColumns + ` FROM characters WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := q.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var out []Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateCharacter loads the owner's character, merges the update field by field
// and writes the result back. Returns the merged row.
func (q *Queries) UpdateCharacter(ctx context.Context, userID, characterID int64, in CharacterUpdate) (*Character, error) {
	c, err := q.GetCharacter(ctx, userID, characterID)
	if err != nil {
		return nil, err
	}
	c.Apply(in)

	query := `
		UPDATE characters SET
			name = $1, nickname = $2, description = $3, design = $4, abilities = $5,
			lore = $6, birthday = $7, interests = $8, disinterests = $9, home_world = $10,
			universe = $11, time_period = $12, main_weapon = $13, armor_attire = $14,
			key_items = $15, general_inventory = $16, updated_at = now()
		WHERE id = $17 AND user_id = $18
		RETURNING ` + characterColumns

	row := q.pool.QueryRow(ctx, query,
		c.Name, c.Nickname, c.Description, c.Design, c.Abilities,
		c.Lore, c.Birthday, c.Interests, c.Disinterests, c.HomeWorld,
		c.Universe, c.TimePeriod, c.MainWeapon, c.ArmorAttire,
		c.KeyItems, c.GeneralInventory, characterID, userID)
	updated, err := scanCharacter(row)
	if err != nil {
		return nil, fmt.Errorf("update character: %w", err)
	}
	return updated, nil
}

// DeleteCharacter removes the owner's character; gallery rows cascade. Returns
// false when no row matched.
func (q *Queries) DeleteCharacter(ctx context.Context, userID, characterID int64) (bool, error) {
	tag, err := q.pool.Exec(ctx,
		`DELETE FROM characters WHERE id = $1 AND user_id = $2`, characterID, userID)
	if err != nil {
		return false, fmt.Errorf("delete character: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetCharacterProfilePhoto records the storage key of the character's profile
// photo after the client finished its upload.
func (q *Queries) SetCharacterProfilePhoto(ctx context.Context, userID, characterID int64, key string) (bool, error) {
	tag, err := q.pool.Exec(ctx,
		`UPDATE characters SET profile_photo_key = $1, updated_at = now() WHERE id = $2 AND user_id = $3`,
		key, characterID, userID)
	if err != nil {
		return false, fmt.Errorf("set character profile photo: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

const galleryColumns = `id, character_id, user_id, storage_key, alt_text, uploaded_at`

// AddGalleryImage attaches an uploaded image to the character's gallery.
func (q *Queries) AddGalleryImage(ctx context.Context, userID, characterID int64, storageKey string, altText *string) (*GalleryImage, error) {
	query := `
		INSERT INTO character_gallery_images (character_id, user_id, storage_key, alt_text)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + galleryColumns

	row := q.pool.QueryRow(ctx, query, characterID, userID, storageKey, altText)
	g, err := scanGalleryImage(row)
	if err != nil {
		return nil, fmt.Errorf("add gallery image: %w", err)
	}
	return g, nil
}

// ListGalleryImages returns the character's gallery in upload order.
func (q *Queries) ListGalleryImages(ctx context.Context, characterID int64) ([]GalleryImage, error) {
	query := `SELECT ` + galleryColumns + ` FROM character_gallery_images WHERE character_id = $1 ORDER BY uploaded_at ASC`

	rows, err := q.pool.Query(ctx, query, characterID)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	defer rows.Close()

	var out []GalleryImage
	for rows.Next() {
		g, err := scanGalleryImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

// GetGalleryImage fetches one gallery image scoped to its owner.
func (q *Queries) GetGalleryImage(ctx context.Context, userID, imageID int64) (*GalleryImage, error) {
	query := `SELECT ` + galleryColumns + ` FROM character_gallery_images WHERE id = $1 AND user_id = $2`

	row := q.pool.QueryRow(ctx, query, imageID, userID)
	g, err := scanGalleryImage(row)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteGalleryImage removes the owner's gallery image row. The object itself is
// deleted from storage by the caller.
func (q *Queries) DeleteGalleryImage(ctx context.Context, userID, imageID int64) (bool, error) {
	tag, err := q.pool.Exec(ctx,
		`DELETE FROM character_gallery_images WHERE id = $1 AND user_id = $2`, imageID, userID)
	if err != nil {
		return false, fmt.Errorf("delete gallery image: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanCharacter(row rowScanner) (*Character, error) {
	var c Character
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.Nickname, &c.Description, &c.ProfilePhotoKey,
		&c.Design, &c.Abilities, &c.Lore, &c.Birthday, &c.Interests, &c.Disinterests,
		&c.HomeWorld, &c.Universe, &c.TimePeriod, &c.MainWeapon, &c.ArmorAttire,
		&c.KeyItems, &c.GeneralInventory, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanGalleryImage(row rowScanner) (*GalleryImage, error) {
	var g GalleryImage
	err := row.Scan(&g.ID, &g.CharacterID, &g.UserID, &g.StorageKey, &g.AltText, &g.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}
