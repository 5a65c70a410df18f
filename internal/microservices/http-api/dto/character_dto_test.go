package dto

import (
	"encoding/json"
	"testing"

	"animeshow/internal/ingestion/anilist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }
func i64Ptr(i int64) *int64 { return &i }

func TestResolveTitle(t *testing.T) {
	tests := []struct {
		name  string
		title *anilist.TitleData
		want  string
	}{
		{"EnglishWins", &anilist.TitleData{English: strPtr("Naruto EN"), Romaji: strPtr("Naruto"), Native: strPtr("ナルト")}, "Naruto EN"},
		{"EmptyEnglishFallsBackToRomaji", &anilist.TitleData{English: strPtr(""), Romaji: strPtr("Naruto"), Native: strPtr("ナルト")}, "Naruto"},
		{"NullEnglishFallsBackToRomaji", &anilist.TitleData{Romaji: strPtr("Naruto")}, "Naruto"},
		{"NativeLast", &anilist.TitleData{English: strPtr(""), Romaji: strPtr(""), Native: strPtr("ナルト")}, "ナルト"},
		{"AllEmpty", &anilist.TitleData{English: strPtr(""), Romaji: strPtr(""), Native: strPtr("")}, ""},
		{"AllNull", &anilist.TitleData{}, ""},
		{"NoTitle", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTitle(tt.title))
		})
	}
}

func TestFlattenCharacter_EmptyRecordGetsDefaults(t *testing.T) {
	got := FlattenCharacter(anilist.RawCharacter{})

	assert.Equal(t, int64(0), got.ID)
	assert.Equal(t, "", got.Name.Full)
	assert.NotNil(t, got.Name.Alternative)
	assert.Empty(t, got.Name.Alternative)
	assert.Equal(t, ImageDTO{}, got.Image)
	assert.Equal(t, 0, got.Favourites)
	assert.Nil(t, got.DateOfBirth.Year)
	assert.NotNil(t, got.Media)
	assert.Empty(t, got.Media)

	// defaults serialize as values, not nulls
	raw, err := json.Marshal(got)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "", m["description"])
	assert.Equal(t, []interface{}{}, m["media"])
	assert.Equal(t, []interface{}{}, m["name"].(map[string]interface{})["alternative"])
}

func TestFlattenCharacter_FullRecord(t *testing.T) {
	raw := anilist.RawCharacter{
		ID: i64Ptr(17),
		Name: &anilist.CharacterName{
			First:       strPtr("Naruto"),
			Last:        strPtr("Uzumaki"),
			Full:        strPtr("Naruto Uzumaki"),
			Native:      strPtr("うずまきナルト"),
			Alternative: []string{"Nine-Tails Jinchuriki"},
		},
		Image:       &anilist.CharacterImage{Large: strPtr("large.jpg"), Medium: strPtr("medium.jpg")},
		Description: strPtr("<b>Ninja</b>"),
		Gender:      strPtr("Male"),
		Age:         strPtr("12-13, 16-17"),
		DateOfBirth: &anilist.FuzzyDate{Month: intPtr(10), Day: intPtr(10)},
		BloodType:   strPtr("B"),
		Favourites:  intPtr(100),
		SiteURL:     strPtr("https://anilist.co/character/17"),
		Media: &anilist.MediaConnection{Edges: []anilist.MediaEdge{
			{Node: &anilist.MediaNode{ID: i64Ptr(20), Type: strPtr("ANIME"), Title: &anilist.TitleData{English: strPtr("Naruto")}}},
		}},
	}

	got := FlattenCharacter(raw)

	assert.Equal(t, int64(17), got.ID)
	assert.Equal(t, "Naruto", got.Name.First)
	assert.Equal(t, "", got.Name.Middle)
	assert.Equal(t, "Naruto Uzumaki", got.Name.Full)
	assert.Equal(t, []string{"Nine-Tails Jinchuriki"}, got.Name.Alternative)
	assert.Equal(t, "medium.jpg", got.Image.Medium)
	assert.Equal(t, "<b>Ninja</b>", got.Description)
	assert.Equal(t, "12-13, 16-17", got.Age)
	assert.Nil(t, got.DateOfBirth.Year)
	assert.Equal(t, 10, *got.DateOfBirth.Month)
	assert.Equal(t, 100, got.Favourites)
	assert.Equal(t, []MediaDTO{{ID: 20, Title: "Naruto", Type: "ANIME"}}, got.Media)
}

func TestFlattenCharacter_MediaCappedInOrder(t *testing.T) {
	edges := make([]anilist.MediaEdge, 0, 5)
	for i := int64(1); i <= 5; i++ {
		edges = append(edges, anilist.MediaEdge{Node: &anilist.MediaNode{
			ID:    i64Ptr(i),
			Title: &anilist.TitleData{Romaji: strPtr("Work")},
		}})
	}

	got := FlattenCharacter(anilist.RawCharacter{Media: &anilist.MediaConnection{Edges: edges}})

	require.Len(t, got.Media, 3)
	assert.Equal(t, int64(1), got.Media[0].ID)
	assert.Equal(t, int64(2), got.Media[1].ID)
	assert.Equal(t, int64(3), got.Media[2].ID)
	assert.Equal(t, "", got.Media[0].Type)
}

func TestFlattenCharacter_EdgeWithoutNode(t *testing.T) {
	got := FlattenCharacter(anilist.RawCharacter{Media: &anilist.MediaConnection{Edges: []anilist.MediaEdge{{}}}})

	assert.Equal(t, []MediaDTO{{ID: 0, Title: "", Type: ""}}, got.Media)
}

// toRaw rebuilds a raw record from an already flattened character
func toRaw(d CharacterDTO) anilist.RawCharacter {
	edges := make([]anilist.MediaEdge, 0, len(d.Media))
	for _, m := range d.Media {
		edges = append(edges, anilist.MediaEdge{Node: &anilist.MediaNode{
			ID:    i64Ptr(m.ID),
			Type:  strPtr(m.Type),
			Title: &anilist.TitleData{English: strPtr(m.Title)},
		}})
	}
	return anilist.RawCharacter{
		ID: i64Ptr(d.ID),
		Name: &anilist.CharacterName{
			First:       strPtr(d.Name.First),
			Middle:      strPtr(d.Name.Middle),
			Last:        strPtr(d.Name.Last),
			Full:        strPtr(d.Name.Full),
			Native:      strPtr(d.Name.Native),
			Alternative: d.Name.Alternative,
		},
		Image:       &anilist.CharacterImage{Large: strPtr(d.Image.Large), Medium: strPtr(d.Image.Medium)},
		Description: strPtr(d.Description),
		Gender:      strPtr(d.Gender),
		Age:         strPtr(d.Age),
		DateOfBirth: &anilist.FuzzyDate{Year: d.DateOfBirth.Year, Month: d.DateOfBirth.Month, Day: d.DateOfBirth.Day},
		BloodType:   strPtr(d.BloodType),
		Favourites:  intPtr(d.Favourites),
		SiteURL:     strPtr(d.SiteURL),
		Media:       &anilist.MediaConnection{Edges: edges},
	}
}

func TestFlattenCharacter_RoundTripIsStable(t *testing.T) {
	inputs := []anilist.RawCharacter{
		{},
		{Name: &anilist.CharacterName{Full: strPtr("Sakura Haruno")}, Favourites: intPtr(80)},
		{
			ID:          i64Ptr(1),
			DateOfBirth: &anilist.FuzzyDate{Year: intPtr(1990)},
			Media: &anilist.MediaConnection{Edges: []anilist.MediaEdge{
				{Node: &anilist.MediaNode{ID: i64Ptr(1), Title: &anilist.TitleData{Native: strPtr("ナルト")}}},
				{Node: &anilist.MediaNode{ID: i64Ptr(2), Title: &anilist.TitleData{Romaji: strPtr("Boruto")}}},
				{}, {}, {},
			}},
		},
	}

	for _, in := range inputs {
		once := FlattenCharacter(in)
		twice := FlattenCharacter(toRaw(once))
		assert.Equal(t, once, twice)
	}
}

func TestSaveCharacterDTO_ToModel(t *testing.T) {
	var payload SaveCharacterDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"id": 2,
		"name": {"full": "Sakura Haruno"},
		"favourites": 80,
		"image": {"large": "big.jpg", "medium": "sakura.jpg"},
		"media": [{"id": 1, "title": "Naruto"}]
	}`), &payload))

	m := payload.ToModel()

	assert.Equal(t, int64(2), m.ID)
	assert.Equal(t, "Sakura Haruno", *m.NameFull)
	assert.Nil(t, m.NameNative)
	assert.Equal(t, 80, m.Favourites)
	assert.Equal(t, "sakura.jpg", *m.ImageURL)
	assert.Nil(t, m.Gender)
	assert.Nil(t, m.Description)
}

func TestSaveCharacterDTO_ToModelMissingGroups(t *testing.T) {
	m := SaveCharacterDTO{ID: i64Ptr(5)}.ToModel()

	assert.Equal(t, int64(5), m.ID)
	assert.Nil(t, m.NameFull)
	assert.Nil(t, m.ImageURL)
	assert.Equal(t, 0, m.Favourites)
}
