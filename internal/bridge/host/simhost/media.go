package simhost

import (
	"context"
	"fmt"
	"path"

	"github.com/framefold/resolvebridge/internal/bridge/host"
)

type mediaPool struct {
	p       *project
	root    *folder
	current *folder
}

func newMediaPool(p *project) *mediaPool {
	root := &folder{p: p, name: "Master"}
	return &mediaPool{p: p, root: root, current: root}
}

func (mp *mediaPool) RootFolder(context.Context) (host.Folder, error) {
	return mp.root, nil
}

func (mp *mediaPool) CurrentFolder(context.Context) (host.Folder, error) {
	mp.p.h.mu.Lock()
	defer mp.p.h.mu.Unlock()
	return mp.current, nil
}

func (mp *mediaPool) AddSubFolder(_ context.Context, parent host.Folder, name string) (host.Folder, error) {
	target, ok := parent.(*folder)
	if !ok || target == nil {
		return nil, fmt.Errorf("%w: foreign folder handle", host.ErrStale)
	}
	mp.p.h.mu.Lock()
	defer mp.p.h.mu.Unlock()
	for _, sub := range target.subFolders {
		if sub.name == name {
			return nil, fmt.Errorf("folder %q already exists", name)
		}
	}
	sub := &folder{p: mp.p, name: name}
	target.subFolders = append(target.subFolders, sub)
	return sub, nil
}

func (mp *mediaPool) CreateEmptyTimeline(_ context.Context, name string) (host.Timeline, error) {
	mp.p.h.mu.Lock()
	defer mp.p.h.mu.Unlock()
	for _, tl := range mp.p.timelines {
		if tl.name == name {
			return nil, fmt.Errorf("timeline %q already exists", name)
		}
	}
	tl := newTimeline(mp.p, name)
	mp.p.timelines = append(mp.p.timelines, tl)
	mp.p.current = tl
	return tl, nil
}

func (mp *mediaPool) CreateTimelineFromClips(ctx context.Context, name string, clips []host.Clip) (host.Timeline, error) {
	created, err := mp.CreateEmptyTimeline(ctx, name)
	if err != nil {
		return nil, err
	}
	tl := created.(*timeline)
	owned, err := mp.ownClips(clips)
	if err != nil {
		return nil, err
	}
	mp.p.h.mu.Lock()
	defer mp.p.h.mu.Unlock()
	tl.appendClips(owned)
	return tl, nil
}

func (mp *mediaPool) ImportTimelineFromFile(ctx context.Context, filePath string) (host.Timeline, error) {
	if filePath == "" {
		return nil, fmt.Errorf("%w: empty timeline file path", host.ErrStale)
	}
	name := path.Base(filePath)
	if ext := path.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}
	return mp.CreateEmptyTimeline(ctx, name)
}

func (mp *mediaPool) AppendToTimeline(_ context.Context, clips []host.Clip) (bool, error) {
	owned, err := mp.ownClips(clips)
	if err != nil {
		return false, err
	}
	mp.p.h.mu.Lock()
	defer mp.p.h.mu.Unlock()
	if mp.p.current == nil {
		return false, nil
	}
	mp.p.current.appendClips(owned)
	return true, nil
}

func (mp *mediaPool) ownClips(clips []host.Clip) ([]*clip, error) {
	owned := make([]*clip, 0, len(clips))
	for _, c := range clips {
		cl, ok := c.(*clip)
		if !ok || cl == nil {
			return nil, fmt.Errorf("%w: foreign clip handle", host.ErrStale)
		}
		owned = append(owned, cl)
	}
	return owned, nil
}

type folder struct {
	p          *project
	name       string
	clips      []*clip
	subFolders []*folder
}

func (f *folder) Name(context.Context) (string, error) {
	f.p.h.mu.Lock()
	defer f.p.h.mu.Unlock()
	return f.name, nil
}

func (f *folder) ClipNames(context.Context) ([]string, error) {
	f.p.h.mu.Lock()
	defer f.p.h.mu.Unlock()
	names := make([]string, 0, len(f.clips))
	for _, cl := range f.clips {
		names = append(names, cl.name)
	}
	return names, nil
}

func (f *folder) Clips(context.Context) ([]host.Clip, error) {
	f.p.h.mu.Lock()
	defer f.p.h.mu.Unlock()
	clips := make([]host.Clip, 0, len(f.clips))
	for _, cl := range f.clips {
		clips = append(clips, cl)
	}
	return clips, nil
}

func (f *folder) SubFolderNames(context.Context) ([]string, error) {
	f.p.h.mu.Lock()
	defer f.p.h.mu.Unlock()
	names := make([]string, 0, len(f.subFolders))
	for _, sub := range f.subFolders {
		names = append(names, sub.name)
	}
	return names, nil
}

type mediaStorage struct {
	h *Host
}

func (ms *mediaStorage) MountedVolumes(context.Context) ([]string, error) {
	ms.h.mu.Lock()
	defer ms.h.mu.Unlock()
	return append([]string(nil), ms.h.volumes...), nil
}

func (ms *mediaStorage) SubFolders(_ context.Context, root string) ([]string, error) {
	ms.h.mu.Lock()
	defer ms.h.mu.Unlock()
	return append([]string(nil), ms.h.storageDirs[root]...), nil
}

func (ms *mediaStorage) Files(_ context.Context, root string) ([]string, error) {
	ms.h.mu.Lock()
	defer ms.h.mu.Unlock()
	return append([]string(nil), ms.h.storageFile[root]...), nil
}

func (ms *mediaStorage) AddItemsToMediaPool(_ context.Context, paths []string) ([]host.Clip, error) {
	ms.h.mu.Lock()
	defer ms.h.mu.Unlock()
	if ms.h.current == nil {
		return nil, fmt.Errorf("%w: no project open", host.ErrStale)
	}
	pool := ms.h.current.pool
	clips := make([]host.Clip, 0, len(paths))
	for _, filePath := range paths {
		cl := newClip(ms.h.current, path.Base(filePath))
		pool.current.clips = append(pool.current.clips, cl)
		clips = append(clips, cl)
	}
	return clips, nil
}
