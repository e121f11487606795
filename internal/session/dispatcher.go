// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/MKhiriev/apk-portal/internal/logger"
	"github.com/MKhiriev/apk-portal/internal/service"
	"github.com/MKhiriev/apk-portal/models"
)

// Listener receives every state published by a Dispatcher. Listeners are
// called synchronously, in subscription order, while the next command waits.
type Listener func(models.SessionState)

// Dispatcher applies commands to the session state serially.
type Dispatcher struct {
	svc         service.SessionService
	configErr   error
	downloadDir string
	logger      *logger.Logger

	// cmd serialises commands.
	cmd sync.Mutex

	mu    sync.RWMutex
	state models.SessionState

	subMu     sync.Mutex
	nextSubID int
	listeners map[int]Listener
}

// New creates a Dispatcher and derives the starting state.
//
// A non-nil configErr puts the dispatcher in the error state with the
// configuration message and no network call is ever made; svc may be nil
// then. Otherwise a persisted session is restored through svc: a stored
// access token starts the dispatcher as authed, anything else as idle.
func New(ctx context.Context, svc service.SessionService, configErr error, downloadDir string, logger *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		svc:         svc,
		configErr:   configErr,
		downloadDir: downloadDir,
		logger:      logger,
		listeners:   make(map[int]Listener),
	}

	if configErr != nil || svc == nil {
		if d.configErr == nil {
			d.configErr = errors.New("session service is not configured")
		}
		d.state = models.SessionState{Status: models.StatusError, Error: d.configErr.Error()}
		logger.Warn().Err(d.configErr).Msg("starting without a usable portal configuration")
		return d
	}

	creds, err := svc.Restore(ctx)
	switch {
	case err == nil:
		d.state = models.SessionState{Status: models.StatusAuthed, Session: creds}
	case errors.Is(err, service.ErrNoSession):
		d.state = models.SessionState{Status: models.StatusIdle}
	default:
		logger.Err(err).Msg("failed to restore persisted session")
		d.state = models.SessionState{Status: models.StatusIdle, Notice: restoreFailedMessage}
	}
	return d
}

// State returns a snapshot of the current state.
func (d *Dispatcher) State() models.SessionState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.Clone()
}

// Subscribe registers l for every state published from now on and returns a
// function that removes it.
func (d *Dispatcher) Subscribe(l Listener) (unsubscribe func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()

	id := d.nextSubID
	d.nextSubID++
	d.listeners[id] = l

	return func() {
		d.subMu.Lock()
		defer d.subMu.Unlock()
		delete(d.listeners, id)
	}
}

// Dispatch applies cmd and returns the resulting state. Failures of the
// underlying operation are reported through the state; the returned error is
// only set when cmd was not accepted at all.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (models.SessionState, error) {
	d.cmd.Lock()
	defer d.cmd.Unlock()

	var err error
	switch c := cmd.(type) {
	case Login:
		err = d.login(ctx, c)
	case Logout:
		err = d.logout(ctx)
	case LoadList:
		err = d.loadList(ctx)
	case Download:
		err = d.download(ctx, c)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownCommand, cmd)
	}

	if err != nil {
		d.logger.Debug().Err(err).Str("status", d.State().Status.String()).Msg("command not applied")
	}
	return d.State(), err
}

// ReloadList dispatches LoadList when a session is active.
func (d *Dispatcher) ReloadList(ctx context.Context) error {
	_, err := d.Dispatch(ctx, LoadList{})
	return err
}

func (d *Dispatcher) login(ctx context.Context, c Login) error {
	if err := d.accept(c, models.StatusIdle, models.StatusError); err != nil {
		return err
	}

	d.update(func(s *models.SessionState) {
		*s = models.SessionState{Status: models.StatusLoading}
	})

	creds, err := d.svc.Login(ctx, c.Username, c.Password)
	if err != nil {
		d.update(func(s *models.SessionState) {
			*s = models.SessionState{Status: models.StatusError, Error: service.UserMessage(err)}
		})
		return nil
	}

	d.update(func(s *models.SessionState) {
		*s = models.SessionState{Status: models.StatusAuthed, Session: creds}
	})
	return nil
}

func (d *Dispatcher) logout(ctx context.Context) error {
	if d.configErr != nil {
		d.update(func(s *models.SessionState) {
			*s = models.SessionState{Status: models.StatusError, Error: d.configErr.Error()}
		})
		return nil
	}

	if err := d.svc.Logout(ctx); err != nil {
		d.logger.Err(err).Msg("logout left persisted credentials behind")
	}
	d.update(func(s *models.SessionState) {
		*s = models.SessionState{Status: models.StatusIdle}
	})
	return nil
}

func (d *Dispatcher) loadList(ctx context.Context) error {
	if err := d.accept(LoadList{}, models.StatusAuthed); err != nil {
		return err
	}

	builds, err := d.svc.ListBuilds(ctx)
	switch {
	case err == nil:
		d.update(func(s *models.SessionState) {
			s.Session = d.svc.Current()
			s.Builds = builds
			s.ListLoaded = true
			s.ListError = ""
		})
	case errors.Is(err, service.ErrSessionExpired), errors.Is(err, service.ErrNotAuthenticated):
		d.update(func(s *models.SessionState) {
			*s = models.SessionState{Status: models.StatusIdle, Notice: service.UserMessage(err)}
		})
	default:
		d.update(func(s *models.SessionState) {
			s.Session = d.svc.Current()
			s.ListError = service.UserMessage(err)
		})
	}
	return nil
}

func (d *Dispatcher) download(ctx context.Context, c Download) error {
	if err := d.accept(c, models.StatusAuthed); err != nil {
		return err
	}

	build, ok := d.State().FindBuild(c.Key)
	if !ok {
		d.update(func(s *models.SessionState) { s.ListError = buildNotFoundMessage })
		return nil
	}

	path, err := d.svc.Download(ctx, build, d.downloadDir)
	if err != nil {
		d.update(func(s *models.SessionState) { s.ListError = service.UserMessage(err) })
		return nil
	}

	d.update(func(s *models.SessionState) {
		s.ListError = ""
		s.Notice = fmt.Sprintf("saved %s to %s", build.Version, path)
	})
	return nil
}

// accept rejects cmd unless the dispatcher is configured and in one of the
// allowed statuses.
func (d *Dispatcher) accept(cmd Command, allowed ...models.Status) error {
	if d.configErr != nil {
		return fmt.Errorf("%w: %s: %w", ErrRejected, cmd.command(), d.configErr)
	}

	status := d.State().Status
	for _, s := range allowed {
		if s == status {
			return nil
		}
	}
	return fmt.Errorf("%w: %s while %s", ErrRejected, cmd.command(), status)
}

// update mutates the state and publishes the result. Callers hold d.cmd.
func (d *Dispatcher) update(mutate func(*models.SessionState)) {
	d.mu.Lock()
	prev := d.state.Status
	mutate(&d.state)
	next := d.state.Clone()
	d.mu.Unlock()

	if prev != next.Status {
		d.logger.Info().
			Str("from", prev.String()).
			Str("to", next.Status.String()).
			Msg("session status changed")
	}
	d.publish(next)
}

func (d *Dispatcher) publish(state models.SessionState) {
	d.subMu.Lock()
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		listeners = append(listeners, d.listeners[id])
	}
	d.subMu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}
