package simhost

import (
	"context"

	"github.com/framefold/resolvebridge/internal/bridge/host"
)

type gallery struct {
	p      *project
	albums []*album
}

func (g *gallery) Albums(context.Context) ([]host.Album, error) {
	g.p.h.mu.Lock()
	defer g.p.h.mu.Unlock()
	albums := make([]host.Album, 0, len(g.albums))
	for _, a := range g.albums {
		albums = append(albums, a)
	}
	return albums, nil
}

func (g *gallery) Album(_ context.Context, name string) (host.Album, bool, error) {
	g.p.h.mu.Lock()
	defer g.p.h.mu.Unlock()
	for _, a := range g.albums {
		if a.name == name {
			return a, true, nil
		}
	}
	return nil, false, nil
}

func (g *gallery) CreateAlbum(_ context.Context, name string) (host.Album, error) {
	g.p.h.mu.Lock()
	defer g.p.h.mu.Unlock()
	a := &album{g: g, name: name}
	g.albums = append(g.albums, a)
	return a, nil
}

type album struct {
	g      *gallery
	name   string
	stills []*still
}

func (a *album) Name(context.Context) (string, error) {
	a.g.p.h.mu.Lock()
	defer a.g.p.h.mu.Unlock()
	return a.name, nil
}

func (a *album) StillLabels(context.Context) ([]string, error) {
	a.g.p.h.mu.Lock()
	defer a.g.p.h.mu.Unlock()
	labels := make([]string, 0, len(a.stills))
	for _, s := range a.stills {
		labels = append(labels, s.label)
	}
	return labels, nil
}

func (a *album) Still(_ context.Context, label string) (host.Still, bool, error) {
	a.g.p.h.mu.Lock()
	defer a.g.p.h.mu.Unlock()
	for _, s := range a.stills {
		if s.label == label {
			return s, true, nil
		}
	}
	return nil, false, nil
}

// still captures the color grade of the clip it was saved from so applying
// it elsewhere is observable.
type still struct {
	album *album
	label string
	grade []string
}

func (s *still) Label(context.Context) (string, error) {
	s.album.g.p.h.mu.Lock()
	defer s.album.g.p.h.mu.Unlock()
	return s.label, nil
}
