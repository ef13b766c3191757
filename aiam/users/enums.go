package users

import "slices"

const DefaultAspectRatio = "1:1"

var (
	AgeRanges = []string{"18-24", "25-34", "35-44", "45-54", "55-64", "65+"}

	Genders = []string{"female", "male", "non-binary", "prefer-not-to-say"}

	Ethnicities = []string{
		"black", "white", "latinx", "middle-eastern", "south-asian", "east-asian",
		"southeast-asian", "indigenous", "pacific-islander", "mixed", "other", "prefer-not-to-say",
	}

	AspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}
)

func IsAgeRange(v string) bool    { return slices.Contains(AgeRanges, v) }
func IsGender(v string) bool      { return slices.Contains(Genders, v) }
func IsEthnicity(v string) bool   { return slices.Contains(Ethnicities, v) }
func IsAspectRatio(v string) bool { return slices.Contains(AspectRatios, v) }

func IsPhotoKind(v string) bool {
	return v == string(PhotoPortrait) || v == string(PhotoFullBody)
}
