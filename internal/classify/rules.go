package classify

import "regexp"

// Category groups related filter rules so whole groups can be switched
// off for mailboxes where they do not apply.
type Category string

const (
	CategoryOutOfOffice   Category = "out_of_office"
	CategoryAutomated     Category = "automated"
	CategoryDMARC         Category = "dmarc"
	CategoryPasscode      Category = "passcode"
	CategoryRates         Category = "rates"
	CategoryCollaboration Category = "collaboration"
	CategoryUnsubscribe   Category = "unsubscribe"
	CategorySpam          Category = "spam"
)

// Rule pairs a compiled pattern with the reason reported when it matches.
type Rule struct {
	Pattern  *regexp.Regexp
	Reason   string
	Category Category
}

func rule(cat Category, reason, pattern string) Rule {
	return Rule{
		Pattern:  regexp.MustCompile(`(?i)` + pattern),
		Reason:   reason,
		Category: cat,
	}
}

// defaultRules is the canonical filter chain. Order matters: rules are
// evaluated top to bottom and the first match determines the reason, so a
// genuine inquiry that happens to mention "fee" is still filtered as a
// rate discussion. Reordering changes observable behavior.
var defaultRules = []Rule{
	// Out-of-office / vacation
	rule(CategoryOutOfOffice, "out of office", `\bout of office\b`),
	rule(CategoryOutOfOffice, "out of office", `\bOOO\b`),
	rule(CategoryOutOfOffice, "out of office", `\baway until\b`),
	rule(CategoryOutOfOffice, "out of office", `\bon (vacation|holiday)\b`),
	rule(CategoryOutOfOffice, "out of office", `\bcurrently out`),
	rule(CategoryOutOfOffice, "out of office", `\bwill be back on`),
	rule(CategoryOutOfOffice, "out of office", `away from the (office|desk)`),

	// Automated / generic replies
	rule(CategoryAutomated, "automated reply", `\bauto-?reply\b`),
	rule(CategoryAutomated, "automated reply", `\bautomatic response\b`),
	rule(CategoryAutomated, "automated reply", `\bmessage received`),
	rule(CategoryAutomated, "automated reply", `\bthanks for your email`),
	rule(CategoryAutomated, "automated reply", `\byour email has been.*received`),
	rule(CategoryAutomated, "automated reply", `\bthank you for contacting`),
	rule(CategoryAutomated, "automated reply", `\bplease allow.*to respond`),
	rule(CategoryAutomated, "automated reply", `je vous remercie`),
	rule(CategoryAutomated, "automated reply", `hours of operation`),

	// DMARC / technical reports
	rule(CategoryDMARC, "DMARC report", `^\[?Preview\]?.*Report Domain:`),

	// One-time passcodes / security alerts
	rule(CategoryPasscode, "passcode message", `\bone[- ]time passcode\b`),
	rule(CategoryPasscode, "passcode message", `\blogin passcode\b`),

	// Rate / fee / payment discussion
	rule(CategoryRates, "discussing rates", `\bI charge\b`),
	rule(CategoryRates, "discussing rates", `\bmy rate is\b`),
	rule(CategoryRates, "discussing rates", `\bflat rate\b`),
	rule(CategoryRates, "discussing rates", `\bfee\b`),
	rule(CategoryRates, "discussing rates", `\bcommission\b`),
	rule(CategoryRates, "discussing rates", `\bbudget\b`),
	rule(CategoryRates, "discussing rates", `\bpaid partnership\b`),

	// Collaboration pitches
	rule(CategoryCollaboration, "collaboration request", `\bcollab(oration)?\b`),
	rule(CategoryCollaboration, "collaboration request", `\bwork together\b`),

	// Negative / unsubscribe
	rule(CategoryUnsubscribe, "not interested", `\bnot interested`),
	rule(CategoryUnsubscribe, "unsubscribe request", `\bunsubscribe\b`),
	rule(CategoryUnsubscribe, "unsubscribe request", `\bremove me`),
	rule(CategoryUnsubscribe, "unsubscribe request", `\bstop emailing`),

	// Abusive / spam content
	rule(CategorySpam, "spam or scam", `\bscam\b`),
	rule(CategorySpam, "spam or scam", `\bspam\b`),
}
