// Package imapsource fetches inbound email over IMAP. Each fetch cycle
// dials, searches the configured folder for recent unseen mail, pulls the
// raw messages and logs out; no connection is held between cycles.
package imapsource

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/lmarin/mailtriage/internal/config"
	"github.com/lmarin/mailtriage/internal/core"
	"go.uber.org/zap"
)

// Source is an IMAP implementation of the MailSource interface.
type Source struct {
	cfg    config.IMAPConfig
	logger *zap.Logger
}

// New creates a new IMAP mail source.
func New(cfg config.IMAPConfig, logger *zap.Logger) *Source {
	return &Source{
		cfg:    cfg,
		logger: logger,
	}
}

// Fetch returns recent inbound emails, newest first, bounded by the
// configured fetch limit.
func (s *Source) Fetch(ctx context.Context) ([]*core.InboundEmail, error) {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server, s.cfg.Port)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("could not dial imap server: %w", err)
	}
	defer c.Logout()

	if err := c.Login(s.cfg.Username, s.cfg.Password); err != nil {
		return nil, fmt.Errorf("could not login to imap server: %w", err)
	}

	mbox, err := c.Select(s.cfg.Folder, false)
	if err != nil {
		return nil, fmt.Errorf("could not select folder %q: %w", s.cfg.Folder, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Since = time.Now().AddDate(0, 0, -s.cfg.DaysBack)
	if s.cfg.UnreadOnly {
		criteria.WithoutFlags = []string{imap.SeenFlag}
	}

	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("could not search folder: %w", err)
	}
	if len(uids) == 0 {
		s.logger.Debug("No new emails", zap.Int("days_back", s.cfg.DaysBack))
		return nil, nil
	}

	// Newest first, then bound the batch.
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if s.cfg.FetchLimit > 0 && len(uids) > s.cfg.FetchLimit {
		uids = uids[:s.cfg.FetchLimit]
	}

	seqSet := new(imap.SeqSet)
	seqSet.AddNum(uids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchUid}

	messages := make(chan *imap.Message, len(uids))
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqSet, items, messages)
	}()

	byUID := make(map[uint32]*core.InboundEmail, len(uids))
	for msg := range messages {
		literal := msg.GetBody(section)
		if literal == nil {
			s.logger.Warn("Message without body section", zap.Uint32("uid", msg.Uid))
			continue
		}
		raw, err := io.ReadAll(literal)
		if err != nil {
			s.logger.Warn("Failed to read message body", zap.Uint32("uid", msg.Uid), zap.Error(err))
			continue
		}

		// uidvalidity:uid is stable for the lifetime of the mailbox.
		id := fmt.Sprintf("%d:%d", mbox.UidValidity, msg.Uid)
		email, err := parseMessage(id, raw)
		if err != nil {
			s.logger.Warn("Failed to parse message", zap.String("email_id", id), zap.Error(err))
			continue
		}
		byUID[msg.Uid] = email
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("could not fetch messages: %w", err)
	}

	emails := make([]*core.InboundEmail, 0, len(byUID))
	for _, uid := range uids {
		if email, ok := byUID[uid]; ok {
			emails = append(emails, email)
		}
	}

	s.logger.Info("Fetched emails",
		zap.Int("count", len(emails)),
		zap.Int("days_back", s.cfg.DaysBack))
	return emails, nil
}
