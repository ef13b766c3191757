package credits

import "context"

const (
	// covers the affirmation text and one generic image
	BaseCost = 20

	PersonalImageSurcharge = 10
	VoiceCloneSurcharge    = 20

	// balance given to a profile on first authentication
	DefaultBalance = 100
)

// feature toggles chosen for a generation
type Selection struct {
	UsePersonalImage bool `json:"usePersonalImage"`
	UseVoiceClone    bool `json:"useVoiceClone"`
}

// what the user has on file to back the selection
type Availability struct {
	HasReferencePhotos bool
	HasVoiceClone      bool
}

// price breakdown for one selection
type Calculation struct {
	Base          int `json:"base"`
	PersonalImage int `json:"personalImage"`
	VoiceClone    int `json:"voiceClone"`
	Total         int `json:"total"`
}

// balance view returned with profiles and generation results
type Summary struct {
	Balance               int  `json:"balance"`
	RemainingAffirmations int  `json:"remainingAffirmations"`
	LowOnCredits          bool `json:"lowOnCredits"`
	LastAffirmation       bool `json:"lastAffirmation"`
}

// purchasable bundle, listed only; purchases are not processed
type Pack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// reason labels for debits
const (
	ReasonAffirmation   = "affirmation"
	ReasonPersonalImage = "personal_image"
	ReasonVoiceClone    = "voice_clone"
)

// storage primitive behind the guard
type Store interface {
	Balance(ctx context.Context, userID string) (int, error)
	// decrements only when the balance covers amount; returns ErrNoFunds otherwise
	DebitIfSufficient(ctx context.Context, userID string, amount int) (int, error)
	Credit(ctx context.Context, userID string, amount int) (int, error)
}

// checks and debits balances
type Guard struct {
	store Store
}
