package anilist

import (
	"bytes"
	"encoding/json"
	"fmt"

	"animeshow/internal/shared"
)

// ============================================
// API RESPONSE STRUCTURES
// ============================================

// CharacterPageResponse represents the Page envelope of a character search
type CharacterPageResponse struct {
	Page *CharacterPageData `json:"Page"`
}

// CharacterPageData contains the character list of one page
type CharacterPageData struct {
	Characters []RawCharacter `json:"characters"`
}

// RawCharacter is a character exactly as AniList returns it.
// Every group and leaf is optional.
type RawCharacter struct {
	ID          *int64           `json:"id"`
	Name        *CharacterName   `json:"name"`
	Image       *CharacterImage  `json:"image"`
	Description *string          `json:"description"`
	Gender      *string          `json:"gender"`
	DateOfBirth *FuzzyDate       `json:"dateOfBirth"`
	Age         *string          `json:"age"` // free-form: "17", "Unknown", "16-17"
	BloodType   *string          `json:"bloodType"`
	Favourites  *int             `json:"favourites"`
	SiteURL     *string          `json:"siteUrl"`
	Media       *MediaConnection `json:"media"`
}

// CharacterName contains name variants
type CharacterName struct {
	First       *string  `json:"first"`
	Middle      *string  `json:"middle"`
	Last        *string  `json:"last"`
	Full        *string  `json:"full"`
	Native      *string  `json:"native"`
	Alternative []string `json:"alternative"`
}

// CharacterImage contains image URLs
type CharacterImage struct {
	Large  *string `json:"large"`
	Medium *string `json:"medium"`
}

// FuzzyDate represents a date with optional components
type FuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// MediaConnection holds the works a character appears in
type MediaConnection struct {
	Edges []MediaEdge `json:"edges"`
}

// MediaEdge wraps one media node
type MediaEdge struct {
	Node *MediaNode `json:"node"`
}

// MediaNode is a single anime or manga
type MediaNode struct {
	ID    *int64     `json:"id"`
	Title *TitleData `json:"title"`
	Type  *string    `json:"type"` // ANIME, MANGA
}

// TitleData contains title variants
type TitleData struct {
	English *string `json:"english"`
	Romaji  *string `json:"romaji"`
	Native  *string `json:"native"`
}

// UnmarshalJSON rejects list elements that are not JSON objects.
func (c *RawCharacter) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: character entry is %q, want object", shared.ErrInvalidUpstreamShape, preview(trimmed))
	}

	type plain RawCharacter
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*c = RawCharacter(p)
	return nil
}

func preview(b []byte) string {
	const max = 32
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
