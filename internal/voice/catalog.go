package voice

// DefaultVoiceID is Sarah, used when no voice is chosen and no clone exists
const DefaultVoiceID = "EXAVITQu4vr4xnSDxMaL"

type Voice struct {
	VoiceID     string `json:"voice_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// preset voices any user may pick
var Catalog = []Voice{
	{VoiceID: "EXAVITQu4vr4xnSDxMaL", Name: "Sarah", Description: "Young warm & confident adult female"},
	{VoiceID: "pFZP5JQG7iQjIQuC4Bku", Name: "Lily", Description: "Velvety British female voice"},
	{VoiceID: "SAz9YHcvj6GT2YYXdXww", Name: "River", Description: "Relaxed neutral voice"},
	{VoiceID: "cgSgspJ2msm6clMCkdW9", Name: "Jessica", Description: "Young, playful American female voice"},
	{VoiceID: "IKne3meq5aSn9XLyUdCD", Name: "Charlie", Description: "Young confident, energetic Australian male voice"},
	{VoiceID: "JBFqnCBsd6RMkjVDRZzb", Name: "George", Description: "Warm, resonant, captivating voice"},
	{VoiceID: "N2lVS1w4EtoT3dr4eOWO", Name: "Callum", Description: "Gravelly and unsettling voice"},
	{VoiceID: "iP95p4xoKVk53GoZ742B", Name: "Chris", Description: "Down-to-earth male voice"},
	{VoiceID: "nPczCjzI2devNBz1zQrb", Name: "Brian", Description: "Middle-aged resonant comforting tone"},
	{VoiceID: "onwK4e9ZLuTAKqWW03F9", Name: "Daniel", Description: "Strong professional voice"},
}

func IsPreset(voiceID string) bool {
	for _, v := range Catalog {
		if v.VoiceID == voiceID {
			return true
		}
	}

	return false
}
