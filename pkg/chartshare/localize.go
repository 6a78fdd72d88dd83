package chartshare

import "strings"

// defaultLocalizer renders the built-in English catalog. Deployments with a
// real localization service implement Localizer over it and inject theirs.
type defaultLocalizer struct {
	catalog map[string]string
}

// NewDefaultLocalizer returns the English string catalog.
func NewDefaultLocalizer() Localizer {
	return &defaultLocalizer{catalog: map[string]string{
		"sonolus.levels.published_at":         "Published {time}",
		"sonolus.levels.visibility.private":   "Private",
		"sonolus.levels.visibility.scheduled": "Scheduled",

		"sonolus.levels.genres.vocal_synth":  "Vocal Synth",
		"sonolus.levels.genres.music_game":   "Music Game",
		"sonolus.levels.genres.game":         "Game",
		"sonolus.levels.genres.meme":         "Meme",
		"sonolus.levels.genres.pops":         "Pops",
		"sonolus.levels.genres.instrumental": "Instrumental",
		"sonolus.levels.genres.others":       "Others",

		"sonolus.backgrounds.title":       "{name} ({version})",
		"sonolus.backgrounds.versions.v1": "v1",
		"sonolus.backgrounds.versions.v3": "v3",
	}}
}

// Localize substitutes args into the catalog value for key. Unknown keys
// fall through to the key itself so a missing entry stays visible.
func (l *defaultLocalizer) Localize(key string, args map[string]string) string {
	value, ok := l.catalog[key]
	if !ok {
		return key
	}
	for name, arg := range args {
		value = strings.ReplaceAll(value, "{"+name+"}", arg)
	}
	return value
}
