package model

import (
	"strings"
	"time"
)

// PlatformSnapshot is one observation of a creator's reach on one platform.
// (creator_id, platform, snapshot_date) is unique in the dataset. Numeric
// fields are pointers because absence means "not observed", never zero.
type PlatformSnapshot struct {
	CreatorID       string   `json:"creator_id"`
	Platform        Platform `json:"platform"`
	Date            Date     `json:"snapshot_date"`
	Followers       *float64 `json:"followers,omitempty"`
	AvgLikesPost    *float64 `json:"avg_likes_post,omitempty"`
	AvgCommentsPost *float64 `json:"avg_comments_post,omitempty"`
}

// Date is a calendar day without a time component, the granularity snapshots
// are keyed by.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar day in UTC
func DateOf(t time.Time) Date {
	u := t.UTC()
	return Date{Year: u.Year(), Month: u.Month(), Day: u.Day()}
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return d.Time().Format("2006-01-02")
}

// Time returns the UTC midnight instant of the day
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Before reports whether d is an earlier day than other
func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

// MarshalJSON renders the date as a YYYY-MM-DD string
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a YYYY-MM-DD string
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Platform identifies a social or monetization platform
type Platform string

const (
	PlatformX         Platform = "X"
	PlatformInstagram Platform = "Instagram"
	PlatformTikTok    Platform = "TikTok"
	PlatformReddit    Platform = "Reddit"
	PlatformOnlyFans  Platform = "OnlyFans"
	PlatformFansly    Platform = "Fansly"
	PlatformManyVids  Platform = "ManyVids"
	PlatformYouTube   Platform = "YouTube"
	PlatformTwitch    Platform = "Twitch"
	PlatformOther     Platform = "Other"
)

// Platforms lists every recognized platform
func Platforms() []Platform {
	return []Platform{
		PlatformX, PlatformInstagram, PlatformTikTok, PlatformReddit,
		PlatformOnlyFans, PlatformFansly, PlatformManyVids,
		PlatformYouTube, PlatformTwitch, PlatformOther,
	}
}

// Valid reports whether the platform is one of the recognized values
func (p Platform) Valid() bool {
	for _, known := range Platforms() {
		if p == known {
			return true
		}
	}
	return false
}

// ParsePlatform resolves a platform name case-insensitively; config sources
// do not all preserve key casing
func ParsePlatform(name string) (Platform, bool) {
	for _, known := range Platforms() {
		if strings.EqualFold(name, string(known)) {
			return known, true
		}
	}
	return Platform(name), false
}
