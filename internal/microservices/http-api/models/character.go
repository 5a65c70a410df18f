package models

import (
	"fmt"
	"unicode/utf8"
)

// Column bounds of the characters table
const (
	MaxNameLength   = 100
	MaxURLLength    = 300
	MaxGenderLength = 20
	MaxAgeLength    = 20
)

// Character is a saved AniList character. ID is the AniList id and is
// always supplied by the caller.
type Character struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement:false"`
	NameFull    *string `json:"name_full" gorm:"column:name_full;type:varchar(100)"`
	NameNative  *string `json:"name_native" gorm:"column:name_native;type:varchar(100)"`
	Gender      *string `json:"gender" gorm:"type:varchar(20)"`
	Age         *string `json:"age" gorm:"type:varchar(20)"`
	Favourites  int     `json:"favourites"`
	ImageURL    *string `json:"image_url" gorm:"column:image_url;type:varchar(300)"`
	Description *string `json:"description" gorm:"type:text"`
	SiteURL     *string `json:"site_url" gorm:"column:site_url;type:varchar(300)"`
}

func (Character) TableName() string {
	return "characters"
}

// MutableColumns lists every column an upsert replaces.
func (Character) MutableColumns() []string {
	return []string{
		"name_full",
		"name_native",
		"gender",
		"age",
		"favourites",
		"image_url",
		"description",
		"site_url",
	}
}

// CheckBounds reports the first string column whose value is longer
// than the column allows. Lengths are counted in characters.
func (c Character) CheckBounds() error {
	checks := []struct {
		column string
		value  *string
		max    int
	}{
		{"name_full", c.NameFull, MaxNameLength},
		{"name_native", c.NameNative, MaxNameLength},
		{"gender", c.Gender, MaxGenderLength},
		{"age", c.Age, MaxAgeLength},
		{"image_url", c.ImageURL, MaxURLLength},
		{"site_url", c.SiteURL, MaxURLLength},
	}
	for _, chk := range checks {
		if chk.value == nil {
			continue
		}
		if n := utf8.RuneCountInString(*chk.value); n > chk.max {
			return fmt.Errorf("%s is %d characters, limit is %d", chk.column, n, chk.max)
		}
	}
	return nil
}
