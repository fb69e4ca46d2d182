package blog

import "fmt"

// Operation names a request that can fail
type Operation string

const (
	OpLoadEntries          Operation = "load_entries"
	OpLoadEntry            Operation = "load_entry"
	OpLoadComments         Operation = "load_comments"
	OpLoadVotingExperience Operation = "load_voting_experience"
	OpLikeEntry            Operation = "like_entry"
	OpUnlikeEntry          Operation = "unlike_entry"
	OpRateEntry            Operation = "rate_entry"
	OpAddComment           Operation = "add_comment"
	OpLoadPermissions      Operation = "load_permissions"
)

// Locale selects the language of user-facing messages
type Locale string

const (
	LocaleGerman  Locale = "de"
	LocaleEnglish Locale = "en"
)

var failureMessages = map[Locale]map[Operation]string{
	LocaleGerman: {
		OpLoadEntries:          "Blogbeiträge konnten nicht geladen werden.",
		OpLoadEntry:            "Blogbeitrag mit der ID '%d' konnte nicht geladen werden.",
		OpLoadComments:         "Kommentare zum Blogbeitrag mit der ID '%d' konnten nicht geladen werden.",
		OpLoadVotingExperience: "Bewertungseinstellungen konnten nicht geladen werden.",
		OpLikeEntry:            "Der Blogbeitrag konnte nicht mit \"Gefällt mir\" markiert werden.",
		OpUnlikeEntry:          "Die Markierung \"Gefällt mir\" konnte nicht entfernt werden.",
		OpRateEntry:            "Der Blogbeitrag konnte nicht bewertet werden.",
		OpAddComment:           "Der Kommentar konnte nicht gespeichert werden.",
		OpLoadPermissions:      "Fehler beim Laden der Blogberechtigungen.",
	},
	LocaleEnglish: {
		OpLoadEntries:          "Blog entries could not be loaded.",
		OpLoadEntry:            "Blog entry with ID '%d' could not be loaded.",
		OpLoadComments:         "Comments for blog entry with ID '%d' could not be loaded.",
		OpLoadVotingExperience: "Voting settings could not be loaded.",
		OpLikeEntry:            "The blog entry could not be liked.",
		OpUnlikeEntry:          "The like could not be removed.",
		OpRateEntry:            "The blog entry could not be rated.",
		OpAddComment:           "The comment could not be saved.",
		OpLoadPermissions:      "Failed to load blog permissions.",
	},
}

// ParseLocale returns the locale for a language tag, German when unknown
func ParseLocale(tag string) Locale {
	if _, ok := failureMessages[Locale(tag)]; ok {
		return Locale(tag)
	}
	return LocaleGerman
}

// FailureMessage returns the message shown when op fails. entryID fills the
// placeholder of entry-specific messages.
func FailureMessage(locale Locale, op Operation, entryID int64) string {
	catalog, ok := failureMessages[locale]
	if !ok {
		catalog = failureMessages[LocaleGerman]
	}
	msg := catalog[op]
	switch op {
	case OpLoadEntry, OpLoadComments:
		return fmt.Sprintf(msg, entryID)
	}
	return msg
}
