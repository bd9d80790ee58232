package entity

import (
	"strings"

	"github.com/vinopick/backend/pkg/enum"
	"gorm.io/gorm"
)

type WineStatus string

var (
	// WineWaiting is a wine which has never been approved.
	WineWaiting    = enum.New(WineStatus("WAITING"), "WAITING")
	WineIncomplete = enum.New(WineStatus("INCOMPLETE"), "INCOMPLETE")
	WinePass       = enum.New(WineStatus("PASS"), "PASS")
)

type Wine struct {
	Base

	Name        string
	EnglishName string
	Winery      string
	Status      WineStatus `gorm:"size:16;index"`

	// SearchText is the lower-cased, space-free concatenation of the names. It is
	// maintained by BeforeSave and matched by free-text price search.
	SearchText string `gorm:"size:1024"`
}

func (w *Wine) BeforeSave(*gorm.DB) error {
	w.SearchText = NormalizeSearchText(w.Name + w.EnglishName + w.Winery)
	return nil
}

// NormalizeSearchText lower-cases s and removes every whitespace character.
func NormalizeSearchText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}
