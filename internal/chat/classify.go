package chat

import (
	"regexp"
	"strings"
)

// Stage is the conversational situation a message falls into.
type Stage string

const (
	StageGeneral          Stage = "general"
	StageAskEmailFriendly Stage = "ask_email_friendly"
	StageEmailProvided    Stage = "email_provided"
	StageInvalidEmail     Stage = "invalid_email"
	StageDismissive       Stage = "dismissive"
	StageThanks           Stage = "thanks"
)

// Stages lists every stage in classification priority order.
var Stages = []Stage{
	StageEmailProvided,
	StageInvalidEmail,
	StageAskEmailFriendly,
	StageDismissive,
	StageThanks,
	StageGeneral,
}

// Context is the result of classifying one message.
type Context struct {
	Stage Stage `json:"stage"`

	// ProvidedEmail is set for email_provided and invalid_email.
	ProvidedEmail string `json:"provided_email,omitempty"`

	// EmailError is the correction hint for invalid_email.
	EmailError string `json:"email_error,omitempty"`
}

var (
	dismissalCues = compileCues(
		`no thanks`, `no thank you`, `no, thanks`, `nope`, `not interested`, `not now`,
		`maybe later`, `i'?ll pass`, `rather not`, `don'?t want to`, `no need`,
	)
	gratitudeCues = compileCues(
		`thanks`, `thank you`, `thx`, `appreciate it`, `much appreciated`, `cheers`,
	)
)

// compileCues builds one case-insensitive, word-bounded alternation.
func compileCues(cues ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(cues, "|") + `)\b`)
}

// Classify decides the stage of message given the prior history.
// It is a pure function of its inputs.
func Classify(history []Turn, message string) Context {
	if candidate, ok := ExtractCandidate(message); ok {
		if valid, hint := ValidateEmail(candidate); !valid {
			return Context{Stage: StageInvalidEmail, ProvidedEmail: candidate, EmailError: hint}
		}
		return Context{Stage: StageEmailProvided, ProvidedEmail: candidate}
	}

	if awaitingReply(history) {
		return Context{Stage: StageAskEmailFriendly}
	}

	switch {
	case dismissalCues.MatchString(message):
		return Context{Stage: StageDismissive}
	case gratitudeCues.MatchString(message):
		return Context{Stage: StageThanks}
	default:
		return Context{Stage: StageGeneral}
	}
}

// awaitingReply reports whether the immediately preceding turn was an
// unanswered request for an address.
func awaitingReply(history []Turn) bool {
	if len(history) == 0 {
		return false
	}
	last := history[len(history)-1]
	return last.IsEmailCollection && !last.EmailCollected
}
