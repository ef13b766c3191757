package credits

// prices a selection; pure and never fails
func ComputeCost(selection Selection) Calculation {
	calc := Calculation{Base: BaseCost}

	if selection.UsePersonalImage {
		calc.PersonalImage = PersonalImageSurcharge
	}

	if selection.UseVoiceClone {
		calc.VoiceClone = VoiceCloneSurcharge
	}

	calc.Total = calc.Base + calc.PersonalImage + calc.VoiceClone

	return calc
}

// drops toggles the user has nothing on file for
func EffectiveSelection(requested Selection, available Availability) Selection {
	return Selection{
		UsePersonalImage: requested.UsePersonalImage && available.HasReferencePhotos,
		UseVoiceClone:    requested.UseVoiceClone && available.HasVoiceClone,
	}
}

func HasEnoughCredits(balance int, selection Selection) bool {
	return balance >= ComputeCost(selection).Total
}

// non-blocking warning threshold
func IsLowOnCredits(balance int) bool {
	return balance < 2*BaseCost
}

func RemainingAffirmations(balance int) int {
	if balance <= 0 {
		return 0
	}

	return balance / BaseCost
}

func Summarize(balance int) Summary {
	remaining := RemainingAffirmations(balance)

	return Summary{
		Balance:               balance,
		RemainingAffirmations: remaining,
		LowOnCredits:          IsLowOnCredits(balance),
		LastAffirmation:       remaining == 1,
	}
}

// credit packs shown on the purchase surface
var Packs = []Pack{
	{ID: "starter", Name: "Starter", Credits: 500},
	{ID: "creator", Name: "Creator", Credits: 1200},
	{ID: "visionary", Name: "Visionary", Credits: 2000},
}
