package mailbox

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nhle/mail-agent/internal/model"
)

// Client wraps go-imap v2 for reading the monitored mailbox. Each
// operation dials a fresh connection; the agent's cadence is minutes,
// not milliseconds, so holding a connection open buys nothing.
type Client struct {
	cfg      model.MailboxConfig
	password string
}

// NewClient creates an IMAP client for the configured mailbox.
func NewClient(cfg model.MailboxConfig, password string) *Client {
	return &Client{cfg: cfg, password: password}
}

// connect establishes a connection, authenticates, and selects the
// configured folder. The caller must Logout the returned client.
func (c *Client) connect(_ context.Context) (*imapclient.Client, error) {
	addr := c.cfg.IMAPHost + ":" + c.cfg.IMAPPort

	var client *imapclient.Client
	var err error
	if c.cfg.TLS {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.cfg.Username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, &AuthError{
			Message: fmt.Sprintf("authentication failed for %s: %v", c.cfg.Username, err),
		}
	}

	if _, err := client.Select(c.folder(), nil).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("selecting %s: %w", c.folder(), err)
	}

	return client, nil
}

func (c *Client) folder() string {
	if c.cfg.Folder == "" {
		return "INBOX"
	}
	return c.cfg.Folder
}

// ValidateConnection verifies the IMAP credentials by connecting and
// selecting the folder. Returns the username on success.
func (c *Client) ValidateConnection(ctx context.Context) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", fmt.Errorf("validating mailbox connection: %w", err)
	}
	defer func() { _ = client.Logout().Wait() }()

	return c.cfg.Username, nil
}

// FetchUnread searches the folder for unseen messages and returns them
// with parsed plain text bodies. Body fetches use peek so the provider's
// read state is untouched; only MarkHandled flips it.
func (c *Client) FetchUnread(ctx context.Context) ([]model.Message, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching unseen messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if limit := c.cfg.FetchLimit; limit > 0 && len(uids) > limit {
		uids = uids[:limit]
	}

	uidSet := imap.UIDSetNum(uids...)
	bodySection := &imap.FetchItemBodySection{Peek: true}
	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		Flags:       true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)

	var messages []model.Message
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		m := messageFromBuffer(buf)
		if raw := buf.FindBodySection(bodySection); raw != nil {
			m.Body = extractPlainText(raw)
		}
		messages = append(messages, m)
	}

	if err := fetchCmd.Close(); err != nil {
		return messages, fmt.Errorf("fetching unread messages: %w", err)
	}

	return messages, nil
}

// MarkHandled flags the message as read so it is not replied to twice.
func (c *Client) MarkHandled(ctx context.Context, id string) error {
	uid, err := parseUID(id)
	if err != nil {
		return err
	}

	client, err := c.connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Logout().Wait() }()

	uidSet := imap.UIDSetNum(imap.UID(uid))
	storeCmd := client.Store(uidSet, &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)

	if err := storeCmd.Close(); err != nil {
		return fmt.Errorf("marking message %s read: %w", id, err)
	}
	return nil
}

// messageFromBuffer extracts envelope fields from a fetch buffer.
func messageFromBuffer(buf *imapclient.FetchMessageBuffer) model.Message {
	m := model.Message{
		ID: strconv.FormatUint(uint64(buf.UID), 10),
	}

	if buf.Envelope != nil {
		m.Subject = buf.Envelope.Subject
		m.Date = buf.Envelope.Date
		m.RFCMessageID = strings.Trim(buf.Envelope.MessageID, "<>")
		if len(buf.Envelope.From) > 0 {
			m.From = buf.Envelope.From[0].Addr()
		}
	}

	return m
}

// parseUID converts a provider-assigned message id back to a uint32 UID.
func parseUID(id string) (uint32, error) {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid message id %q: %w", id, err)
	}
	return uint32(uid), nil
}
