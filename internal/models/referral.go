package models

// Referrer is an entry of the top referrers table
type Referrer struct {
	Name  string `json:"name"`
	Code  string `json:"code"`
	Count int    `json:"count" validate:"gte=0"`
}

// Referral is a recent referee/referrer pairing
type Referral struct {
	RefereeName   string `json:"referee_name"`
	RefereeEmail  string `json:"referee_email"`
	ReferrerName  string `json:"referrer_name"`
	ReferrerEmail string `json:"referrer_email"`
	Date          string `json:"date"`
}

// ReferralStats is the read-only referrals aggregate
type ReferralStats struct {
	TopReferrers    []Referrer `json:"top_referrers" validate:"dive"`
	RecentReferrals []Referral `json:"recent_referrals" validate:"dive"`
}
