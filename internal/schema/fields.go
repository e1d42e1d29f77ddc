// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package schema

// FieldKey identifies one column of the registration sheet export.
type FieldKey string

// Header schema for a guest registration record, in canonical column order.
const (
	FieldTimestamp    FieldKey = "timestamp"
	FieldBirthday     FieldKey = "birthday"
	FieldZodiac       FieldKey = "zodiac"
	FieldAgeRange     FieldKey = "age_range"
	FieldEducation    FieldKey = "education"
	FieldZip          FieldKey = "zip"
	FieldEthnicity    FieldKey = "ethnicity"
	FieldGender       FieldKey = "gender"
	FieldOrientation  FieldKey = "orientation"
	FieldIndustry     FieldKey = "industry"
	FieldRole         FieldKey = "role"
	FieldKnowHost     FieldKey = "know_host"
	FieldKnowScore    FieldKey = "know_score"
	FieldInterest1    FieldKey = "interest_1"
	FieldInterest2    FieldKey = "interest_2"
	FieldInterest3    FieldKey = "interest_3"
	FieldMusicPref    FieldKey = "music_pref"
	FieldPurchase     FieldKey = "recent_purchase"
	FieldAtWorst      FieldKey = "at_worst"
	FieldSocialStance FieldKey = "social_stance"
	FieldScreenName   FieldKey = "screen_name"
	FieldUID          FieldKey = "uid"
	FieldCheckedIn    FieldKey = "checked_in"
	FieldCheckInTime  FieldKey = "checkin_time"
	FieldPhotoURL     FieldKey = "photo_url"
)

// AllFields returns every known field in canonical header order.
func AllFields() []FieldKey {
	return []FieldKey{
		FieldTimestamp, FieldBirthday, FieldZodiac, FieldAgeRange,
		FieldEducation, FieldZip, FieldEthnicity, FieldGender,
		FieldOrientation, FieldIndustry, FieldRole, FieldKnowHost,
		FieldKnowScore, FieldInterest1, FieldInterest2, FieldInterest3,
		FieldMusicPref, FieldPurchase, FieldAtWorst, FieldSocialStance,
		FieldScreenName, FieldUID, FieldCheckedIn, FieldCheckInTime,
		FieldPhotoURL,
	}
}

// CategoricalFields returns the columns that carry categorical labels, in
// canonical order. These are the columns the codebook is built over and the
// columns eligible for association scope.
func CategoricalFields() []FieldKey {
	return []FieldKey{
		FieldZodiac, FieldAgeRange, FieldEducation, FieldEthnicity,
		FieldGender, FieldOrientation, FieldIndustry, FieldRole,
		FieldKnowHost, FieldInterest1, FieldInterest2, FieldInterest3,
		FieldMusicPref, FieldPurchase, FieldAtWorst,
	}
}

// VariableKey identifies a categorical variable in the codebook. Most
// variables map one-to-one onto a field; the three interest fields share the
// single "interest" variable space.
type VariableKey string

// Codebook variables.
const (
	VarZodiac      VariableKey = "zodiac"
	VarAgeRange    VariableKey = "age_range"
	VarEducation   VariableKey = "education"
	VarEthnicity   VariableKey = "ethnicity"
	VarGender      VariableKey = "gender"
	VarOrientation VariableKey = "orientation"
	VarIndustry    VariableKey = "industry"
	VarRole        VariableKey = "role"
	VarKnowHost    VariableKey = "know_host"
	VarInterest    VariableKey = "interest"
	VarMusicPref   VariableKey = "music_pref"
	VarPurchase    VariableKey = "recent_purchase"
	VarAtWorst     VariableKey = "at_worst"
)

// Variables returns the distinct codebook variables in canonical order.
// The order is stable across runs; artifact writers rely on it.
func Variables() []VariableKey {
	return []VariableKey{
		VarZodiac, VarAgeRange, VarEducation, VarEthnicity, VarGender,
		VarOrientation, VarIndustry, VarRole, VarKnowHost, VarInterest,
		VarMusicPref, VarPurchase, VarAtWorst,
	}
}

// VariableFor returns the codebook variable a categorical field draws its
// codes from. The second return is false for non-categorical fields.
func VariableFor(f FieldKey) (VariableKey, bool) {
	switch f {
	case FieldZodiac:
		return VarZodiac, true
	case FieldAgeRange:
		return VarAgeRange, true
	case FieldEducation:
		return VarEducation, true
	case FieldEthnicity:
		return VarEthnicity, true
	case FieldGender:
		return VarGender, true
	case FieldOrientation:
		return VarOrientation, true
	case FieldIndustry:
		return VarIndustry, true
	case FieldRole:
		return VarRole, true
	case FieldKnowHost:
		return VarKnowHost, true
	case FieldInterest1, FieldInterest2, FieldInterest3:
		return VarInterest, true
	case FieldMusicPref:
		return VarMusicPref, true
	case FieldPurchase:
		return VarPurchase, true
	case FieldAtWorst:
		return VarAtWorst, true
	default:
		return "", false
	}
}
