// Package session runs chat requests for one profile: it asks the remote
// assistant first, falls back to the local grammar, persists what changed and
// tells the other views about it.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/command"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/logging"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/notify"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/remote"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/store"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Source says who produced a reply.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Assistant is the remote capability a session needs. *remote.Client
// satisfies it.
type Assistant interface {
	Chat(ctx context.Context, in remote.Request) (*remote.Response, error)
}

// Reply is the result of one chat message.
type Reply struct {
	Text    string
	Source  Source
	Changed bool
	// Layout is the profile's layout after the message was handled.
	Layout layout.Layout
	// Ignored is set for blank input; nothing else is filled in.
	Ignored bool
}

// Session is the per-profile chat controller. Requests are handled one at a
// time; a second Handle waits for the first to finish.
type Session struct {
	profile   layout.Profile
	store     *store.LayoutStore
	notifier  *notify.Notifier
	assistant Assistant
	log       *zap.Logger
	sem       *semaphore.Weighted
}

// Options wires a session. Notifier and Assistant are optional.
type Options struct {
	Profile   layout.Profile
	Store     *store.LayoutStore
	Notifier  *notify.Notifier
	Assistant Assistant
	Logger    *zap.Logger
}

func New(opts Options) *Session {
	return &Session{
		profile:   opts.Profile,
		store:     opts.Store,
		notifier:  opts.Notifier,
		assistant: opts.Assistant,
		log:       logging.OrNop(opts.Logger).Named("session").With(zap.String("profile", string(opts.Profile))),
		sem:       semaphore.NewWeighted(1),
	}
}

// Profile returns the profile this session edits.
func (s *Session) Profile() layout.Profile {
	return s.profile
}

// Layout reads the current layout from the store.
func (s *Session) Layout(ctx context.Context) layout.Layout {
	return s.store.Get(ctx, s.profile)
}

// Persona returns the assistant's presentation for this profile.
func (s *Session) Persona() layout.Persona {
	return layout.PersonaFor(s.profile)
}

// Handle processes one chat message. The returned error is non-nil only when
// the session could not start (context done) or a changed layout could not
// be saved; in the latter case Reply is still filled in.
func (s *Session) Handle(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Reply{Ignored: true}, nil
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return Reply{}, err
	}
	defer s.sem.Release(1)

	current := s.store.Get(ctx, s.profile)

	if command.IsShowLayout(text) || s.assistant == nil {
		return s.local(ctx, text, current)
	}

	resp, err := s.assistant.Chat(ctx, remote.Request{
		Message:       text,
		Profile:       s.profile,
		CurrentLayout: current,
	})
	if err != nil {
		if !errors.Is(err, remote.ErrUnavailable) {
			s.log.Warn("assistant call failed", zap.Error(err))
		} else {
			s.log.Info("assistant unavailable, handling locally", zap.Error(err))
		}
		return s.local(ctx, text, current)
	}

	reply := Reply{Text: resp.Message, Source: SourceRemote, Layout: current}
	if o := resp.Outcome(); o != nil {
		res := command.Apply(o, &reply.Layout, s.profile)
		if res.Changed {
			reply.Changed = true
			if err := s.commit(ctx, reply.Layout); err != nil {
				return reply, err
			}
		} else {
			s.log.Info("assistant action had no effect", zap.String("action", resp.Action), zap.String("result", res.Reply))
		}
	}
	return reply, nil
}

func (s *Session) local(ctx context.Context, text string, current layout.Layout) (Reply, error) {
	res := command.Apply(command.Interpret(text, current), &current, s.profile)
	reply := Reply{Text: res.Reply, Source: SourceLocal, Changed: res.Changed, Layout: current}
	if res.Changed {
		if err := s.commit(ctx, current); err != nil {
			return reply, err
		}
	}
	return reply, nil
}

// commit saves the layout and then broadcasts it. A failed broadcast is only
// logged; the store already holds the new state.
func (s *Session) commit(ctx context.Context, l layout.Layout) error {
	if err := s.store.Set(ctx, s.profile, l); err != nil {
		s.log.Error("saving layout", zap.Error(err))
		return fmt.Errorf("save layout: %w", err)
	}
	if s.notifier == nil {
		return nil
	}
	if err := s.notifier.Broadcast(ctx, s.profile, l); err != nil {
		s.log.Warn("broadcasting layout", zap.Error(err))
	}
	return nil
}

// Reset restores the defaults directly, without going through chat.
func (s *Session) Reset(ctx context.Context) (layout.Layout, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return layout.Layout{}, err
	}
	defer s.sem.Release(1)

	l := layout.DefaultLayout(s.profile)
	return l, s.commit(ctx, l)
}
