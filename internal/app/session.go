package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"finitefield.org/hanko-blog/internal/preference"
	"finitefield.org/hanko-blog/internal/router"
	"finitefield.org/hanko-blog/internal/view"
)

// Session is the state of one page: its target container, its language preference and
// the location currently shown. A Session is used from a single goroutine.
//
// Navigations are not cancelled: when two overlap, whichever load finishes last renders.
type Session struct {
	app    *App
	pref   *preference.Preference
	target view.Target
	opts   ShowOptions
	ctx    context.Context

	state router.State
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithFragmentURL makes post shells fetch their result from the URL fn returns.
func WithFragmentURL(fn func(router.Target) string) SessionOption {
	return func(s *Session) { s.opts.FragmentURL = fn }
}

// WithContext sets the context used for re-renders triggered by language changes.
func WithContext(ctx context.Context) SessionOption {
	return func(s *Session) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// NewSession binds a session to target. pref may be nil for single-language sites.
func (a *App) NewSession(pref *preference.Preference, target view.Target, opts ...SessionOption) *Session {
	s := &Session{
		app:    a,
		pref:   pref,
		target: target,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if pref != nil && a.multilingual {
		pref.Subscribe(s.languageChanged)
	}
	return s
}

// Lang is the language views are rendered in.
func (s *Session) Lang(ctx context.Context) string {
	if s.pref == nil || !s.app.multilingual {
		return string(preference.Default)
	}
	return string(s.pref.Get(ctx))
}

// State returns the location last navigated to.
func (s *Session) State() router.State { return s.state }

// Start applies the stored language to the document and renders the initial location.
func (s *Session) Start(ctx context.Context, state router.State) error {
	if err := s.applyLang(ctx); err != nil {
		return err
	}
	return s.Navigate(ctx, state)
}

// Show renders the immediate view for state into the target.
func (s *Session) Show(ctx context.Context, state router.State) (View, error) {
	s.state = state
	v, err := s.app.Show(state, s.Lang(ctx), s.opts)
	if err != nil {
		return View{}, err
	}
	if err := s.target.SetContent(view.ContainerID, v.HTML); err != nil {
		return View{}, err
	}
	return v, nil
}

// Complete finishes a pending view by loading the post and rendering the outcome.
func (s *Session) Complete(ctx context.Context, v View) error {
	if !v.Pending {
		return nil
	}
	html, _, err := s.app.Complete(ctx, v.Target, s.Lang(ctx))
	if err != nil {
		return err
	}
	return s.target.SetContent(view.ContainerID, html)
}

// Navigate shows state and, for posts, completes the load.
func (s *Session) Navigate(ctx context.Context, state router.State) error {
	v, err := s.Show(ctx, state)
	if err != nil {
		return err
	}
	return s.Complete(ctx, v)
}

// SetLanguage persists code; the subscription re-renders the current view.
func (s *Session) SetLanguage(ctx context.Context, code preference.Code) error {
	if s.pref == nil || !s.app.multilingual {
		return fmt.Errorf("app: language selection is not enabled")
	}
	return s.pref.Set(ctx, code)
}

func (s *Session) languageChanged(code preference.Code) {
	if err := s.applyLang(s.ctx); err != nil {
		s.app.logger.Warn("set document language failed", zap.String("lang", string(code)), zap.Error(err))
	}
	if err := s.Navigate(s.ctx, s.state); err != nil {
		s.app.logger.Warn("re-render after language change failed", zap.String("lang", string(code)), zap.Error(err))
	}
}

func (s *Session) applyLang(ctx context.Context) error {
	setter, ok := s.target.(view.LangSetter)
	if !ok {
		return nil
	}
	return setter.SetLang(s.Lang(ctx))
}
