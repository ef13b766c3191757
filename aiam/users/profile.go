package users

import "codeberg.org/aiam/server/internal/credits"

// both reference photos are needed for personal imagery
func (p *Profile) HasReferencePhotos() bool {
	return p.PortraitImageURL != "" && p.FullBodyImageURL != ""
}

func (p *Profile) HasVoiceClone() bool {
	return p.VoiceCloneID != ""
}

func (p *Profile) Availability() credits.Availability {
	return credits.Availability{
		HasReferencePhotos: p.HasReferencePhotos(),
		HasVoiceClone:      p.HasVoiceClone(),
	}
}

// aspect ratio to use when a request does not name one
func (p *Profile) AspectRatio(requested string) string {
	if IsAspectRatio(requested) {
		return requested
	}

	if IsAspectRatio(p.DefaultAspectRatio) {
		return p.DefaultAspectRatio
	}

	return DefaultAspectRatio
}

func (p *Profile) Summary() credits.Summary {
	return credits.Summarize(p.Credits)
}
