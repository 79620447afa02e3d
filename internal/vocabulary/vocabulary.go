// Package vocabulary holds the entity-name vocabularies that parameterise
// the command grammars.
//
// A Configuration is loaded once at startup from an arena vocabulary file
// and never mutated afterwards. Every entry must be lower-case because
// utterances are lower-cased before matching; Load normalises entries and
// Validate rejects anything that would produce an unmatchable grammar.
package vocabulary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrMalformed indicates an empty, duplicated, or misaligned vocabulary.
// A process must not compile grammars from a malformed Configuration.
var ErrMalformed = errors.New("malformed vocabulary configuration")

// Configuration is the immutable snapshot of all known entity vocabularies.
//
// ObjectCategoriesSingular and ObjectCategoriesPlural are index-aligned:
// entry i of one is the other grammatical form of entry i of the other.
type Configuration struct {
	PersonNames              []string `yaml:"person_names" validate:"required,min=1,unique,dive,required,lowercase"`
	LocationNames            []string `yaml:"location_names" validate:"required,min=1,unique,dive,required,lowercase"`
	PlacementLocationNames   []string `yaml:"placement_location_names" validate:"required,min=1,unique,dive,required,lowercase"`
	RoomNames                []string `yaml:"room_names" validate:"required,min=1,unique,dive,required,lowercase"`
	ObjectNames              []string `yaml:"object_names" validate:"required,min=1,unique,dive,required,lowercase"`
	ObjectCategoriesSingular []string `yaml:"object_categories_singular" validate:"required,min=1,unique,dive,required,lowercase"`
	ObjectCategoriesPlural   []string `yaml:"object_categories_plural" validate:"required,min=1,unique,dive,required,lowercase"`
}

var validate = validator.New()

// Normalize lower-cases and trims every entry in place. Call it before
// Validate when the Configuration was built from untrusted input.
func (c *Configuration) Normalize() {
	for _, set := range [][]string{
		c.PersonNames,
		c.LocationNames,
		c.PlacementLocationNames,
		c.RoomNames,
		c.ObjectNames,
		c.ObjectCategoriesSingular,
		c.ObjectCategoriesPlural,
	} {
		for i, entry := range set {
			set[i] = strings.ToLower(strings.TrimSpace(entry))
		}
	}
}

// Validate checks the Configuration invariants: every vocabulary non-empty
// with no duplicates, entries lower-case, and the two category lists
// index-aligned. Violations are reported as ErrMalformed.
func (c *Configuration) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(c.ObjectCategoriesSingular) != len(c.ObjectCategoriesPlural) {
		return fmt.Errorf("%w: %d singular object categories vs %d plural",
			ErrMalformed, len(c.ObjectCategoriesSingular), len(c.ObjectCategoriesPlural))
	}
	return nil
}
