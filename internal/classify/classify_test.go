package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mail-agent/internal/model"
)

func TestClassifyDenyListWinsOverBody(t *testing.T) {
	c := New(Config{})

	// Even a perfectly genuine-looking body is rejected when the sender
	// matches a deny-list entry.
	decisions := []model.Message{
		{ID: "1", From: "no-reply@example.com", Subject: "Hello", Body: "I have a question about your course"},
		{ID: "2", From: "alerts.noreply@shop.io", Subject: "Hi", Body: "Love it, how do I join?"},
		{ID: "3", From: "MAILER-DAEMON@mx.example.org", Subject: "Undeliverable", Body: "bounce details"},
	}
	for _, msg := range decisions {
		d := c.Classify(msg)
		assert.False(t, d.Accept, "message %s", msg.ID)
		assert.Equal(t, ReasonDenyList, d.Reason, "message %s", msg.ID)
	}
}

func TestClassifyEmptyBody(t *testing.T) {
	c := New(Config{})

	for _, body := range []string{"", "   ", "\n\t \n"} {
		d := c.Classify(model.Message{From: "a@x.com", Subject: "Question", Body: body})
		assert.False(t, d.Accept)
		assert.Equal(t, ReasonEmptyBody, d.Reason)
	}
}

func TestClassifyDenyListCheckedBeforeEmptyBody(t *testing.T) {
	c := New(Config{})

	d := c.Classify(model.Message{From: "bounce@mx.example.com", Body: ""})
	assert.Equal(t, ReasonDenyList, d.Reason)
}

func TestClassifyFilterCategories(t *testing.T) {
	c := New(Config{})

	cases := []struct {
		name    string
		subject string
		body    string
		reason  string
	}{
		{"out of office subject", "Out of Office until Monday", "I will respond when I return.", "out of office"},
		{"ooo shorthand", "OOO", "back next week", "out of office"},
		{"vacation", "Re: your note", "I am on vacation right now", "out of office"},
		{"auto reply", "Auto-Reply", "This is an automatic response", "automated reply"},
		{"thanks for your email", "Re: hi", "Thanks for your email, we will get back to you", "automated reply"},
		{"french auto reply", "Re: bonjour", "Je vous remercie de votre message.", "automated reply"},
		{"dmarc", "[Preview] Weekly Report Domain: example.com", "aggregate report attached", "DMARC report"},
		{"passcode", "Your login passcode", "Use 123456 to sign in", "passcode message"},
		{"rates fee", "Pricing", "My fee for a post is $500", "discussing rates"},
		{"rates charge", "Hi", "I charge $200 per hour", "discussing rates"},
		{"collab", "Let's collab!", "We would love to work with you", "collaboration request"},
		{"unsubscribe upper", "RE: newsletter", "Please UNSUBSCRIBE me from this list", "unsubscribe request"},
		{"remove me", "stop", "remove me from your list", "unsubscribe request"},
		{"not interested", "re: offer", "Sorry, not interested.", "not interested"},
		{"spam", "hello", "this looks like a scam to me", "spam or scam"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := c.Classify(model.Message{
				From:    "someone@example.com",
				Subject: tc.subject,
				Body:    tc.body,
			})
			assert.False(t, d.Accept)
			assert.Equal(t, tc.reason, d.Reason)
		})
	}
}

func TestClassifyGenuineQuestion(t *testing.T) {
	c := New(Config{})

	d := c.Classify(model.Message{
		ID:      "1",
		From:    "a@x.com",
		Subject: "Question about pricing",
		Body:    "Hi, I love your course, how do I join?",
	})
	assert.True(t, d.Accept)
	assert.Equal(t, ReasonGenuine, d.Reason)
}

func TestClassifyFirstMatchWins(t *testing.T) {
	c := New(Config{})

	// Matches both the out-of-office and the rates categories; the
	// earlier-listed out-of-office rule determines the reason.
	d := c.Classify(model.Message{
		From:    "b@y.com",
		Subject: "Out of Office",
		Body:    "I charge a flat rate for sponsored posts.",
	})
	assert.False(t, d.Accept)
	assert.Equal(t, "out of office", d.Reason)
}

func TestClassifyMissingFieldsTreatedAsEmpty(t *testing.T) {
	c := New(Config{})

	// No sender, no subject: falls through the deny list and classifies
	// on body alone.
	d := c.Classify(model.Message{Body: "how do I sign up?"})
	assert.True(t, d.Accept)

	d = c.Classify(model.Message{})
	assert.Equal(t, ReasonEmptyBody, d.Reason)
}

func TestClassifyDisabledCategories(t *testing.T) {
	c := New(Config{DisabledCategories: []string{"rates", "collaboration"}})

	d := c.Classify(model.Message{
		From:    "a@x.com",
		Subject: "Sponsored post",
		Body:    "What is your budget for this collab?",
	})
	assert.True(t, d.Accept, "disabled categories must not filter")

	// Other categories stay active.
	d = c.Classify(model.Message{From: "a@x.com", Subject: "OOO", Body: "away"})
	assert.False(t, d.Accept)
}

func TestClassifyCustomDenyList(t *testing.T) {
	c := New(Config{DenyList: []string{"@blocked.example"}})

	d := c.Classify(model.Message{From: "user@blocked.example", Body: "hello"})
	require.False(t, d.Accept)
	assert.Equal(t, ReasonDenyList, d.Reason)

	// The built-in list is replaced, not extended.
	d = c.Classify(model.Message{From: "no-reply@example.com", Body: "hello"})
	assert.True(t, d.Accept)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := New(Config{})

	d := c.Classify(model.Message{From: "No-Reply@Example.COM", Body: "x"})
	assert.Equal(t, ReasonDenyList, d.Reason)

	d = c.Classify(model.Message{From: "a@x.com", Subject: "oUt Of OfFiCe", Body: "x"})
	assert.Equal(t, "out of office", d.Reason)
}
