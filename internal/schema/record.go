// Mingle - Guest Check-in Analytics and Compatibility Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mingle

package schema

import (
	"sort"
	"strings"
)

// Record is one eligible guest response with values as provided by the
// upstream sheet. Values stay raw strings at this boundary; the encoder owns
// numeric and date parsing. A Record is immutable for the duration of a
// pipeline run.
type Record struct {
	UID          string `json:"uid"`
	ScreenName   string `json:"screen_name"`
	Timestamp    string `json:"timestamp"`
	Birthday     string `json:"birthday"`
	Zodiac       string `json:"zodiac"`
	AgeRange     string `json:"age_range"`
	Education    string `json:"education"`
	Zip          string `json:"zip"`
	Ethnicity    string `json:"ethnicity"`
	Gender       string `json:"gender"`
	Orientation  string `json:"orientation"`
	Industry     string `json:"industry"`
	Role         string `json:"role"`
	KnowHost     string `json:"know_host"`
	KnowScore    string `json:"know_score"`
	Interest1    string `json:"interest_1"`
	Interest2    string `json:"interest_2"`
	Interest3    string `json:"interest_3"`
	MusicPref    string `json:"music_pref"`
	Purchase     string `json:"recent_purchase"`
	AtWorst      string `json:"at_worst"`
	SocialStance string `json:"social_stance"`
	CheckedIn    bool   `json:"checked_in"`
	CheckInTime  string `json:"checkin_time"`
	PhotoURL     string `json:"photo_url"`

	// checkedInRaw keeps the sheet's spelling of the checked-in flag so the
	// generic Field accessor can return it. Literal construction leaves it
	// empty; only the parsed bool is available then.
	checkedInRaw string

	// present tracks which columns the provider actually supplied, so an
	// absent column can be told apart from an empty value. A nil map (the
	// zero value, and what literal construction produces) reports every
	// field as present.
	present map[FieldKey]bool
}

// ParseRecord builds a Record from a raw name/value mapping. Unknown field
// names are returned so the caller can flag schema drift; their values are
// never propagated into the Record.
func ParseRecord(raw map[string]string) (Record, []string) {
	r := Record{present: make(map[FieldKey]bool, len(raw))}
	var unknown []string

	for name, value := range raw {
		key := FieldKey(strings.ToLower(strings.TrimSpace(name)))
		if !r.assign(key, value) {
			unknown = append(unknown, name)
			continue
		}
		r.present[key] = true
	}

	// Map iteration order is random; keep the report deterministic.
	sort.Strings(unknown)

	return r, unknown
}

// assign stores a raw value into the field identified by key. Returns false
// for unknown keys.
//
//nolint:gocyclo // flat field dispatch, one case per schema column
func (r *Record) assign(key FieldKey, value string) bool {
	switch key {
	case FieldTimestamp:
		r.Timestamp = value
	case FieldBirthday:
		r.Birthday = value
	case FieldZodiac:
		r.Zodiac = value
	case FieldAgeRange:
		r.AgeRange = value
	case FieldEducation:
		r.Education = value
	case FieldZip:
		r.Zip = value
	case FieldEthnicity:
		r.Ethnicity = value
	case FieldGender:
		r.Gender = value
	case FieldOrientation:
		r.Orientation = value
	case FieldIndustry:
		r.Industry = value
	case FieldRole:
		r.Role = value
	case FieldKnowHost:
		r.KnowHost = value
	case FieldKnowScore:
		r.KnowScore = value
	case FieldInterest1:
		r.Interest1 = value
	case FieldInterest2:
		r.Interest2 = value
	case FieldInterest3:
		r.Interest3 = value
	case FieldMusicPref:
		r.MusicPref = value
	case FieldPurchase:
		r.Purchase = value
	case FieldAtWorst:
		r.AtWorst = value
	case FieldSocialStance:
		r.SocialStance = value
	case FieldScreenName:
		r.ScreenName = value
	case FieldUID:
		r.UID = value
	case FieldCheckedIn:
		r.CheckedIn = ParseCheckedIn(value)
		r.checkedInRaw = value
	case FieldCheckInTime:
		r.CheckInTime = value
	case FieldPhotoURL:
		r.PhotoURL = value
	default:
		return false
	}
	return true
}

// Field returns the raw value for a field and whether the provider supplied
// that column. An absent field is the MissingField case: callers treat it as
// missing for this record only.
//
//nolint:gocyclo // flat field dispatch, one case per schema column
func (r *Record) Field(f FieldKey) (string, bool) {
	if r.present != nil && !r.present[f] {
		return "", false
	}

	switch f {
	case FieldTimestamp:
		return r.Timestamp, true
	case FieldBirthday:
		return r.Birthday, true
	case FieldZodiac:
		return r.Zodiac, true
	case FieldAgeRange:
		return r.AgeRange, true
	case FieldEducation:
		return r.Education, true
	case FieldZip:
		return r.Zip, true
	case FieldEthnicity:
		return r.Ethnicity, true
	case FieldGender:
		return r.Gender, true
	case FieldOrientation:
		return r.Orientation, true
	case FieldIndustry:
		return r.Industry, true
	case FieldRole:
		return r.Role, true
	case FieldKnowHost:
		return r.KnowHost, true
	case FieldKnowScore:
		return r.KnowScore, true
	case FieldInterest1:
		return r.Interest1, true
	case FieldInterest2:
		return r.Interest2, true
	case FieldInterest3:
		return r.Interest3, true
	case FieldMusicPref:
		return r.MusicPref, true
	case FieldPurchase:
		return r.Purchase, true
	case FieldAtWorst:
		return r.AtWorst, true
	case FieldSocialStance:
		return r.SocialStance, true
	case FieldScreenName:
		return r.ScreenName, true
	case FieldUID:
		return r.UID, true
	case FieldCheckedIn:
		return r.checkedInRaw, true
	case FieldCheckInTime:
		return r.CheckInTime, true
	case FieldPhotoURL:
		return r.PhotoURL, true
	default:
		return "", false
	}
}

// ParseCheckedIn interprets the sheet's checked-in flag. The upstream form
// has used several spellings over time.
func ParseCheckedIn(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "y", "1", "checked", "checked in", "checked_in":
		return true
	default:
		return false
	}
}
