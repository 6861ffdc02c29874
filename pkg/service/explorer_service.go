package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/codenest/codenest/pkg/event"
	"github.com/codenest/codenest/pkg/explorer"
	"github.com/codenest/codenest/pkg/file"
	"github.com/codenest/codenest/pkg/models"
)

// ExplorerService owns the directory cache and the handle registry, and
// coordinates cache bookkeeping around mutations (invalidate on create,
// remove on delete, relocate on rename). Tree events are pushed through the
// emitter; the UI fetches fresh data over HTTP afterwards.
type ExplorerService struct {
	cache     *explorer.Cache
	registry  *file.Registry
	emitter   *event.Emitter
	logger    *slog.Logger
	workspace string
	authority string
}

func NewExplorerService(registry *file.Registry, emitter *event.Emitter, logger *slog.Logger, workspace string, authority string) *ExplorerService {
	return &ExplorerService{
		cache:     explorer.NewCache(logger),
		registry:  registry,
		emitter:   emitter,
		logger:    logger,
		workspace: workspace,
		authority: authority,
	}
}

// Workspace returns the tree root path.
func (s *ExplorerService) Workspace() string { return s.workspace }

// Resolve wraps a path or doc URI into a handle.
func (s *ExplorerService) Resolve(ref string) (file.File, error) {
	return s.registry.FromURI(ref)
}

// LoadFileList returns the (possibly cached) sorted listing for ref.
func (s *ExplorerService) LoadFileList(ctx context.Context, ref string) (*models.FileListResponse, error) {
	dir, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	children, err := s.cache.LoadFileList(ctx, dir)
	if err != nil {
		return nil, err
	}
	return &models.FileListResponse{Path: dir.Path(), Entries: toFileInfos(children)}, nil
}

// CachedFileList returns the cached listing without touching the backing
// store.
func (s *ExplorerService) CachedFileList(path string) *models.FileListResponse {
	return &models.FileListResponse{Path: path, Entries: toFileInfos(s.cache.GetCacheFileList(path))}
}

func (s *ExplorerService) ReadFile(ctx context.Context, ref string) (string, error) {
	f, err := s.Resolve(ref)
	if err != nil {
		return "", err
	}
	return f.Read(ctx)
}

func (s *ExplorerService) WriteFile(ctx context.Context, ref string, content string) error {
	f, err := s.Resolve(ref)
	if err != nil {
		return err
	}
	if err := f.Write(ctx, content); err != nil {
		return err
	}
	s.emitter.Emit(event.FSChangedEvent{Path: f.Path()})
	return nil
}

func (s *ExplorerService) CreateFile(ctx context.Context, parentRef string, name string) (*models.FileInfo, error) {
	return s.create(ctx, parentRef, name, false)
}

func (s *ExplorerService) CreateDirectory(ctx context.Context, parentRef string, name string) (*models.FileInfo, error) {
	return s.create(ctx, parentRef, name, true)
}

func (s *ExplorerService) create(ctx context.Context, parentRef string, name string, dir bool) (*models.FileInfo, error) {
	parent, err := s.Resolve(parentRef)
	if err != nil {
		return nil, err
	}
	var created file.File
	if dir {
		created, err = parent.CreateNewDirectory(ctx, name)
	} else {
		created, err = parent.CreateNewFile(ctx, name)
	}
	if err != nil {
		return nil, err
	}
	// The parent listing is stale now; repopulate on next load.
	s.cache.Invalidate(parent.Path())
	s.emitter.Emit(event.FSCreatedEvent{Path: created.Path(), IsDir: dir})
	info := toFileInfo(created)
	return &info, nil
}

func (s *ExplorerService) Rename(ctx context.Context, ref string, newName string) (*models.FileInfo, error) {
	f, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}
	oldPath := f.Path()
	renamed, err := f.Rename(ctx, newName)
	if err != nil {
		return nil, err
	}
	s.cache.RelocateInCache(oldPath, renamed)
	s.emitter.Emit(event.FSRenamedEvent{OldPath: oldPath, NewPath: renamed.Path()})
	info := toFileInfo(renamed)
	return &info, nil
}

func (s *ExplorerService) Delete(ctx context.Context, ref string) error {
	f, err := s.Resolve(ref)
	if err != nil {
		return err
	}
	if err := f.Delete(ctx); err != nil {
		return err
	}
	s.cache.RemoveFileInCache(f)
	s.emitter.Emit(event.FSDeletedEvent{Path: f.Path()})
	return nil
}

// ShareURI builds a content URI for handing the entry to another process.
func (s *ExplorerService) ShareURI(ref string) (string, error) {
	if strings.TrimSpace(s.authority) == "" {
		return "", fmt.Errorf("share authority is not configured")
	}
	f, err := s.Resolve(ref)
	if err != nil {
		return "", err
	}
	return f.URI(s.authority), nil
}

// Breadcrumbs walks the parent chain from ref up to the workspace root.
// The workspace root itself is included and aliased to its base name; paths
// above it are not exposed. Segments come back root-first.
func (s *ExplorerService) Breadcrumbs(ref string) ([]models.Breadcrumb, error) {
	f, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}

	var trail []models.Breadcrumb
	for cur := f; cur != nil; cur = cur.Parent() {
		trail = append(trail, models.Breadcrumb{Name: cur.Name(), Path: cur.Path()})
		if cur.Path() == s.workspace {
			break
		}
		if !strings.HasPrefix(cur.Path(), s.workspace+"/") && !strings.HasPrefix(cur.Path(), "doc://") {
			// Outside the workspace; stop before exposing ancestors.
			break
		}
	}

	// Reverse to root-first order.
	for i, j := 0, len(trail)-1; i < j; i, j = i+1, j-1 {
		trail[i], trail[j] = trail[j], trail[i]
	}
	return trail, nil
}

func toFileInfo(f file.File) models.FileInfo {
	return models.FileInfo{
		Name:     f.Name(),
		Path:     f.Path(),
		IsDir:    f.IsDirectory(),
		MimeType: f.MimeType(),
		ModTime:  f.LastModified(),
	}
}

func toFileInfos(files []file.File) []models.FileInfo {
	infos := make([]models.FileInfo, 0, len(files))
	for _, f := range files {
		infos = append(infos, toFileInfo(f))
	}
	return infos
}
