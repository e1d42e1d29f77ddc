// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package similarity

import (
	"fmt"

	"github.com/tomtom215/mingle/internal/encode"
	"github.com/tomtom215/mingle/internal/schema"
)

// Reason tags attached to edges for UI explainability. The interest tag is
// "int:<k>" where k is the overlap count.
const (
	ReasonMusic    = "music"
	ReasonPurchase = "purchase"
	ReasonAtWorst  = "aworst"
)

// Weights configures the default scoring policy. The factor set is
// deliberately non-demographic: interests, music preference, most recent
// happy purchase, and the "at your worst" self-description. Demographic
// variables are excluded from compatibility on purpose.
type Weights struct {
	// Interest scales the Jaccard term over the two interest sets.
	Interest float64 `json:"interest" koanf:"interest"`

	// MusicBonus is the flat bonus for an exact music-preference match.
	MusicBonus float64 `json:"music_bonus" koanf:"music_bonus"`

	// PurchaseBonus is the flat bonus for an exact recent-purchase match.
	PurchaseBonus float64 `json:"purchase_bonus" koanf:"purchase_bonus"`

	// AtWorstBonus is the flat bonus for an exact at-worst match.
	AtWorstBonus float64 `json:"at_worst_bonus" koanf:"at_worst_bonus"`
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Interest:      1.0,
		MusicBonus:    0.2,
		PurchaseBonus: 0.1,
		AtWorstBonus:  0.1,
	}
}

// Scorer is the pluggable scoring policy: a pure function from two feature
// rows to a score in [0, 1] plus the reason tags for the factors that fired.
// Implementations must be symmetric in their arguments and safe for
// concurrent use.
type Scorer interface {
	// Name returns the policy identifier (e.g. "weighted").
	Name() string

	// Score computes the pair score and its reason tags.
	Score(a, b *encode.FeatureRow) (float64, []string)
}

// WeightedScorer is the default policy: Jaccard similarity over interest
// sets plus flat bonuses for exact factor matches, clipped to 1.0.
type WeightedScorer struct {
	weights Weights
}

// NewWeightedScorer creates the default scorer. Zero weights fall back to
// defaults so an empty config still scores.
func NewWeightedScorer(w Weights) *WeightedScorer {
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	return &WeightedScorer{weights: w}
}

// Name returns the policy identifier.
func (s *WeightedScorer) Name() string { return "weighted" }

// Score computes the weighted pair score. An empty interest set on either
// side contributes 0, not undefined.
func (s *WeightedScorer) Score(a, b *encode.FeatureRow) (float64, []string) {
	var score float64
	reasons := make([]string, 0, 4)

	setA := a.InterestSet()
	setB := b.InterestSet()
	if len(setA) > 0 && len(setB) > 0 {
		overlap := 0
		for code := range setA {
			if _, ok := setB[code]; ok {
				overlap++
			}
		}
		union := len(setA) + len(setB) - overlap
		score += s.weights.Interest * float64(overlap) / float64(union)
		if overlap > 0 {
			reasons = append(reasons, fmt.Sprintf("int:%d", overlap))
		}
	}

	for _, factor := range []struct {
		field  schema.FieldKey
		bonus  float64
		reason string
	}{
		{schema.FieldMusicPref, s.weights.MusicBonus, ReasonMusic},
		{schema.FieldPurchase, s.weights.PurchaseBonus, ReasonPurchase},
		{schema.FieldAtWorst, s.weights.AtWorstBonus, ReasonAtWorst},
	} {
		if codesMatch(a, b, factor.field) {
			score += factor.bonus
			reasons = append(reasons, factor.reason)
		}
	}

	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score, reasons
}

// codesMatch reports an exact code match with both sides non-missing. Two
// N/A cells share a code but are not a match.
func codesMatch(a, b *encode.FeatureRow, f schema.FieldKey) bool {
	ca := a.Code(f)
	cb := b.Code(f)
	return ca != encode.MissingCode && ca == cb && !a.IsNA(f)
}

var _ Scorer = (*WeightedScorer)(nil)
