// Package classify decides whether an inbound message deserves a reply.
//
// Classification is a pure function over the message text: the sender is
// checked against a deny list, an empty body is rejected, and the combined
// subject + body is matched against an ordered rule chain where the first
// matching rule wins. A message matching no rule is a genuine question.
package classify

import (
	"strings"

	"github.com/nhle/mail-agent/internal/model"
)

// Reasons for decisions made outside the rule chain.
const (
	ReasonDenyList  = "sender in deny list"
	ReasonEmptyBody = "empty message body"
	ReasonGenuine   = "genuine question"
)

// Decision is the outcome of classifying a single message. Reason is
// always populated: the matched rule's reason on rejection, or
// ReasonGenuine on acceptance.
type Decision struct {
	Accept bool
	Reason string
}

// Accepted builds an accepting decision.
func Accepted(reason string) Decision {
	return Decision{Accept: true, Reason: reason}
}

// Rejected builds a rejecting decision.
func Rejected(reason string) Decision {
	return Decision{Accept: false, Reason: reason}
}

// defaultDenyList holds sender address substrings that are never worth a
// reply, mostly automated no-reply senders.
var defaultDenyList = []string{
	"mailer-daemon@",
	"no-reply@",
	"noreply@",
	"do-not-reply@",
	"bounce@",
	"dmarcreport@",
}

// Classifier evaluates messages against a fixed, ordered rule set.
type Classifier struct {
	denyList []string
	rules    []Rule
}

// Config tunes the rule set. Zero value yields the full default set.
type Config struct {
	// DenyList replaces the built-in no-reply sender list when non-empty.
	DenyList []string

	// DisabledCategories names categories whose rules are skipped.
	DisabledCategories []string
}

// New builds a Classifier from the canonical rule set, honoring the
// configured deny list and disabled categories. Rule order is preserved.
func New(cfg Config) *Classifier {
	denyList := cfg.DenyList
	if len(denyList) == 0 {
		denyList = defaultDenyList
	}
	lowered := make([]string, len(denyList))
	for i, d := range denyList {
		lowered[i] = strings.ToLower(d)
	}

	disabled := make(map[Category]bool, len(cfg.DisabledCategories))
	for _, c := range cfg.DisabledCategories {
		disabled[Category(c)] = true
	}

	var rules []Rule
	for _, r := range defaultRules {
		if disabled[r.Category] {
			continue
		}
		rules = append(rules, r)
	}

	return &Classifier{denyList: lowered, rules: rules}
}

// Classify maps a message to a reply/filter decision. It is deterministic
// and performs no I/O. Missing subject or sender fields are treated as
// empty strings.
func (c *Classifier) Classify(msg model.Message) Decision {
	sender := strings.ToLower(msg.From)
	for _, deny := range c.denyList {
		if deny != "" && strings.Contains(sender, deny) {
			return Rejected(ReasonDenyList)
		}
	}

	if strings.TrimSpace(msg.Body) == "" {
		return Rejected(ReasonEmptyBody)
	}

	text := msg.Subject + "\n" + msg.Body
	for _, rule := range c.rules {
		if rule.Pattern.MatchString(text) {
			return Rejected(rule.Reason)
		}
	}

	return Accepted(ReasonGenuine)
}
