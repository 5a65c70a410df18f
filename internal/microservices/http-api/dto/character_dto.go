package dto

import "animeshow/internal/ingestion/anilist"

// MaxMediaPerCharacter caps the works listed for one character
const MaxMediaPerCharacter = 3

// CharacterDTO is the flattened character returned by search.
// Every field is present; missing upstream values become "", [] or 0.
// Date of birth components stay null when AniList does not know them.
type CharacterDTO struct {
	ID          int64      `json:"id"`
	Name        NameDTO    `json:"name"`
	Image       ImageDTO   `json:"image"`
	Description string     `json:"description"`
	Gender      string     `json:"gender"`
	Age         string     `json:"age"`
	DateOfBirth DateDTO    `json:"dateOfBirth"`
	BloodType   string     `json:"bloodType"`
	Favourites  int        `json:"favourites"`
	SiteURL     string     `json:"siteUrl"`
	Media       []MediaDTO `json:"media"`
}

type NameDTO struct {
	First       string   `json:"first"`
	Middle      string   `json:"middle"`
	Last        string   `json:"last"`
	Full        string   `json:"full"`
	Native      string   `json:"native"`
	Alternative []string `json:"alternative"`
}

type ImageDTO struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
}

type DateDTO struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// MediaDTO is one work the character appears in, with a single title
type MediaDTO struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
}

// FlattenCharacter converts a raw AniList character into a CharacterDTO.
// It never fails: absent groups and leaves take their zero value.
func FlattenCharacter(raw anilist.RawCharacter) CharacterDTO {
	out := CharacterDTO{
		ID:          int64Or(raw.ID),
		Name:        flattenName(raw.Name),
		Image:       flattenImage(raw.Image),
		Description: stringOr(raw.Description),
		Gender:      stringOr(raw.Gender),
		Age:         stringOr(raw.Age),
		DateOfBirth: flattenDate(raw.DateOfBirth),
		BloodType:   stringOr(raw.BloodType),
		Favourites:  intOr(raw.Favourites),
		SiteURL:     stringOr(raw.SiteURL),
		Media:       flattenMedia(raw.Media),
	}
	return out
}

// FlattenCharacters flattens every record, preserving order
func FlattenCharacters(raws []anilist.RawCharacter) []CharacterDTO {
	out := make([]CharacterDTO, 0, len(raws))
	for _, r := range raws {
		out = append(out, FlattenCharacter(r))
	}
	return out
}

func flattenName(n *anilist.CharacterName) NameDTO {
	if n == nil {
		return NameDTO{Alternative: []string{}}
	}
	alt := make([]string, len(n.Alternative))
	copy(alt, n.Alternative)
	return NameDTO{
		First:       stringOr(n.First),
		Middle:      stringOr(n.Middle),
		Last:        stringOr(n.Last),
		Full:        stringOr(n.Full),
		Native:      stringOr(n.Native),
		Alternative: alt,
	}
}

func flattenImage(img *anilist.CharacterImage) ImageDTO {
	if img == nil {
		return ImageDTO{}
	}
	return ImageDTO{
		Large:  stringOr(img.Large),
		Medium: stringOr(img.Medium),
	}
}

func flattenDate(d *anilist.FuzzyDate) DateDTO {
	if d == nil {
		return DateDTO{}
	}
	return DateDTO{
		Year:  copyInt(d.Year),
		Month: copyInt(d.Month),
		Day:   copyInt(d.Day),
	}
}

// flattenMedia keeps the first MaxMediaPerCharacter edges in the order
// received. Sorting is done upstream.
func flattenMedia(m *anilist.MediaConnection) []MediaDTO {
	if m == nil || len(m.Edges) == 0 {
		return []MediaDTO{}
	}

	edges := m.Edges
	if len(edges) > MaxMediaPerCharacter {
		edges = edges[:MaxMediaPerCharacter]
	}

	out := make([]MediaDTO, 0, len(edges))
	for _, edge := range edges {
		node := edge.Node
		if node == nil {
			node = &anilist.MediaNode{}
		}
		out = append(out, MediaDTO{
			ID:    int64Or(node.ID),
			Title: ResolveTitle(node.Title),
			Type:  stringOr(node.Type),
		})
	}
	return out
}

// ResolveTitle prefers English, then Romaji, then Native.
// The first non-empty value wins; Native may itself be empty.
func ResolveTitle(t *anilist.TitleData) string {
	if t == nil {
		return ""
	}
	if t.English != nil && *t.English != "" {
		return *t.English
	}
	if t.Romaji != nil && *t.Romaji != "" {
		return *t.Romaji
	}
	return stringOr(t.Native)
}

func stringOr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOr(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func int64Or(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}

func copyInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
