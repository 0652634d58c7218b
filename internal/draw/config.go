package draw

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ByePolicy controls what happens when the roster does not divide evenly
// into rooms.
type ByePolicy string

const (
	// LowestRankBye gives each leftover bottom-ranked team a one-team bye room.
	LowestRankBye ByePolicy = "lowest_rank_bye"
	// NoBye refuses to draw a roster that does not divide evenly.
	NoBye ByePolicy = "no_bye"
)

// Method selects the within-bracket seeding rule.
type Method string

const (
	// MethodAdjacent pairs consecutive ranks: 1v2, 3v4, and so on.
	MethodAdjacent Method = "adjacent"
	// MethodFold pairs the top half of each bracket against the bottom half.
	MethodFold Method = "fold"
)

// Package-level validator instance for configuration validation.
var validate = validator.New()

// Config holds the recognized draw options. The zero value is not valid;
// start from DefaultConfig.
type Config struct {
	Sides                 int       `json:"sides" validate:"gte=2"`
	PanelSize             int       `json:"panel_size" validate:"gte=1"`
	AvoidInstitutionClash bool      `json:"avoid_institution_clash"`
	ByePolicy             ByePolicy `json:"bye_policy" validate:"oneof=lowest_rank_bye no_bye"`
	Method                Method    `json:"method" validate:"oneof=adjacent fold"`
	TieBreakSeed          *int64    `json:"tie_break_seed,omitempty"`
}

// DefaultConfig returns the conventional two-side, single-judge setup.
func DefaultConfig() Config {
	return Config{
		Sides:                 2,
		PanelSize:             1,
		AvoidInstitutionClash: true,
		ByePolicy:             LowestRankBye,
		Method:                MethodAdjacent,
	}
}

// Validate rejects an invalid configuration before any computation begins.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return &ConfigError{
				Field:  strings.ToLower(f.Field()),
				Detail: "failed " + f.Tag() + " check",
			}
		}
		return &ConfigError{Field: "config", Detail: err.Error()}
	}
	return nil
}
