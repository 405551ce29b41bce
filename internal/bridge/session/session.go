// Package session tracks which host project, timeline, and page are current.
// The cache is an optimization, never ground truth: the host can change its
// current pointers out of band (an operator working interactively, another
// client), so every getter re-queries the live pointer and only compares it
// against the cached identity.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/framefold/resolvebridge/internal/bridge/host"
)

// ProjectRef is the opaque identity of a host project. It is valid only
// while that project is open in the host.
type ProjectRef struct {
	Name string
}

// TimelineRef is the opaque identity of a timeline within the current
// project. It is invalid once its parent project is no longer current.
type TimelineRef struct {
	Name string
}

// ErrNoCurrent reports that the host has no current entity of the requested
// kind. Callers branch on it to produce NotFound outcomes.
var ErrNoCurrent = errors.New("no current entity")

// Intent describes session changes an adapter wants committed after its host
// calls succeed. The router commits intents; adapters never write Session
// directly, so a failed operation cannot leave partial session updates.
type Intent struct {
	Project *ProjectRef
	// Timeline, when set, becomes the current timeline. ClearTimeline
	// drops the cached timeline instead (project switches invalidate it).
	Timeline      *TimelineRef
	ClearTimeline bool
	Page          *host.Page
}

// Session is the bridge's process-wide record of current host state. Exactly
// one Session exists per running bridge; it is rebuilt from the live host at
// startup and never persisted.
type Session struct {
	conn host.Conn

	mu       sync.RWMutex
	project  *ProjectRef
	timeline *TimelineRef
	page     host.Page
}

// New binds a Session to an already-running host, deriving the current
// project, timeline, and page from the host's live state. A host with no
// open project is a valid starting state; a host that does not respond is
// not.
func New(ctx context.Context, conn host.Conn) (*Session, error) {
	if conn == nil {
		return nil, fmt.Errorf("host connection is required")
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("bind to host: %w", err)
	}
	s := &Session{conn: conn}

	page, err := conn.CurrentPage(ctx)
	if err == nil {
		s.page = page
	}

	pm, err := conn.ProjectManager(ctx)
	if err != nil {
		return nil, fmt.Errorf("host project manager: %w", err)
	}
	project, err := pm.CurrentProject(ctx)
	if err != nil {
		if errors.Is(err, host.ErrStale) {
			return s, nil
		}
		return nil, fmt.Errorf("derive current project: %w", err)
	}
	name, err := project.Name(ctx)
	if err != nil {
		return nil, fmt.Errorf("derive current project name: %w", err)
	}
	s.project = &ProjectRef{Name: name}

	timeline, err := project.CurrentTimeline(ctx)
	if err == nil {
		if tlName, nameErr := timeline.Name(ctx); nameErr == nil {
			s.timeline = &TimelineRef{Name: tlName}
		}
	}
	return s, nil
}

// Conn returns the host connection the session is bound to.
func (s *Session) Conn() host.Conn {
	return s.conn
}

// CurrentProject re-queries the host for the live current project. The
// cached identity is refreshed to match; ErrNoCurrent is returned when the
// host reports no open project.
func (s *Session) CurrentProject(ctx context.Context) (host.Project, ProjectRef, error) {
	pm, err := s.conn.ProjectManager(ctx)
	if err != nil {
		return nil, ProjectRef{}, err
	}
	project, err := pm.CurrentProject(ctx)
	if err != nil {
		if errors.Is(err, host.ErrStale) {
			s.setProject(nil)
			return nil, ProjectRef{}, ErrNoCurrent
		}
		return nil, ProjectRef{}, err
	}
	name, err := project.Name(ctx)
	if err != nil {
		return nil, ProjectRef{}, err
	}
	ref := ProjectRef{Name: name}
	if cached := s.projectRef(); cached == nil || *cached != ref {
		// The host switched projects outside the bridge; the cached
		// timeline belonged to the old project and is gone with it.
		s.setProject(&ref)
		s.setTimeline(nil)
	}
	return project, ref, nil
}

// CurrentTimeline re-queries the host for the live current timeline within
// the live current project. ErrNoCurrent is returned when either is absent.
func (s *Session) CurrentTimeline(ctx context.Context) (host.Timeline, TimelineRef, error) {
	project, _, err := s.CurrentProject(ctx)
	if err != nil {
		return nil, TimelineRef{}, err
	}
	timeline, err := project.CurrentTimeline(ctx)
	if err != nil {
		if errors.Is(err, host.ErrStale) {
			s.setTimeline(nil)
			return nil, TimelineRef{}, ErrNoCurrent
		}
		return nil, TimelineRef{}, err
	}
	name, err := timeline.Name(ctx)
	if err != nil {
		return nil, TimelineRef{}, err
	}
	ref := TimelineRef{Name: name}
	if cached := s.timelineRef(); cached == nil || *cached != ref {
		s.setTimeline(&ref)
	}
	return timeline, ref, nil
}

// CurrentPage re-queries the host for the active page and refreshes the
// cached value.
func (s *Session) CurrentPage(ctx context.Context) (host.Page, error) {
	page, err := s.conn.CurrentPage(ctx)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
	return page, nil
}

// Commit applies an adapter-reported intent. The router calls it only after
// the adapter's host calls succeeded.
func (s *Session) Commit(intent *Intent) {
	if intent == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if intent.Project != nil {
		ref := *intent.Project
		s.project = &ref
	}
	if intent.ClearTimeline {
		s.timeline = nil
	}
	if intent.Timeline != nil {
		ref := *intent.Timeline
		s.timeline = &ref
	}
	if intent.Page != nil {
		s.page = *intent.Page
	}
}

// Snapshot reports the cached identities without touching the host. It is a
// debugging view; operations must use the CurrentX getters instead.
func (s *Session) Snapshot() (project, timeline string, page host.Page) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.project != nil {
		project = s.project.Name
	}
	if s.timeline != nil {
		timeline = s.timeline.Name
	}
	return project, timeline, s.page
}

func (s *Session) projectRef() *ProjectRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.project
}

func (s *Session) timelineRef() *TimelineRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline
}

func (s *Session) setProject(ref *ProjectRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = ref
}

func (s *Session) setTimeline(ref *TimelineRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeline = ref
}
