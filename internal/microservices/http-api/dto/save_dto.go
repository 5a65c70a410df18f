package dto

import "animeshow/internal/microservices/http-api/models"

// SaveCharacterDTO used for POST /api/character/save.
// The body is usually a CharacterDTO picked from a search result, but
// any JSON object is accepted; unknown fields are ignored and missing
// ones are stored as NULL.
type SaveCharacterDTO struct {
	ID          *int64        `json:"id"`
	Name        *SaveNameDTO  `json:"name"`
	Gender      *string       `json:"gender"`
	Age         *string       `json:"age"`
	Favourites  *int          `json:"favourites"`
	Image       *SaveImageDTO `json:"image"`
	Description *string       `json:"description"`
	SiteURL     *string       `json:"siteUrl"`
}

type SaveNameDTO struct {
	Full   *string `json:"full"`
	Native *string `json:"native"`
}

type SaveImageDTO struct {
	Medium *string `json:"medium"`
}

// SaveResultDTO is the data member of a save response
type SaveResultDTO struct {
	ID int64 `json:"id"`
}

// ToModel maps the payload onto the persisted shape. The image URL is
// taken from the medium variant. A nil ID maps to 0, which the store
// rejects.
func (d SaveCharacterDTO) ToModel() models.Character {
	m := models.Character{
		Gender:      d.Gender,
		Age:         d.Age,
		Description: d.Description,
		SiteURL:     d.SiteURL,
	}
	if d.ID != nil {
		m.ID = *d.ID
	}
	if d.Name != nil {
		m.NameFull = d.Name.Full
		m.NameNative = d.Name.Native
	}
	if d.Favourites != nil {
		m.Favourites = *d.Favourites
	}
	if d.Image != nil {
		m.ImageURL = d.Image.Medium
	}
	return m
}
