package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/arcs/model/arc"
	"github.com/viant/arcs/service/dao"
	arcdao "github.com/viant/arcs/service/dao/arc"
	"github.com/viant/arcs/service/dao/criteria"
)

// Service stores arc records as JSON files under a base URL.
type Service struct {
	basePath string
	fs       afs.Service
	logger   zerolog.Logger
	mu       sync.RWMutex
}

var _ dao.Service[string, arc.Record] = (*Service)(nil)

// Save persists a record.
func (s *Service) Save(ctx context.Context, record *arc.Record) error {
	if record == nil {
		return dao.ErrNilEntity
	}
	if record.ID == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal arc %v: %w", record.ID, err)
	}
	filePath := s.recordPath(record.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save arc to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a record.
func (s *Service) Load(ctx context.Context, id string) (*arc.Record, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	filePath := s.recordPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if arc exists: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: arc %v", dao.ErrNotFound, id)
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read arc file: %w", err)
	}
	var record arc.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal arc %v: %w", id, err)
	}
	return &record, nil
}

// Delete removes a record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	filePath := s.recordPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if arc exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: arc %v", dao.ErrNotFound, id)
	}
	if err := s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete arc file: %w", err)
	}
	return nil
}

// List returns stored records ordered by id; unreadable files are skipped.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*arc.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objects, err := s.fs.List(ctx, s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list arc files: %w", err)
	}
	var records []*arc.Record
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Warn().Err(err).Str("url", object.URL()).Msg("failed to read arc file")
			continue
		}
		var record arc.Record
		if err := json.Unmarshal(data, &record); err != nil {
			s.logger.Warn().Err(err).Str("url", object.URL()).Msg("failed to unmarshal arc file")
			continue
		}
		if !criteria.Match(arcdao.ParamOuterArcID, record.OuterArcID, parameters) {
			continue
		}
		records = append(records, &record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// recordPath returns the file path of an arc; ids are escaped since they
// carry ':' and '!'.
func (s *Service) recordPath(id string) string {
	name := strings.NewReplacer("!", "", ":", "_", "/", "_").Replace(id)
	return url.Join(s.basePath, name+".json")
}

// Option customises the Service.
type Option func(s *Service)

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a filesystem arc store rooted at basePath (any afs URL).
func New(basePath string, options ...Option) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	fs := afs.New()
	ctx := context.Background()
	if exists, _ := fs.Exists(ctx, basePath); !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}
	basePath = url.Normalize(basePath, file.Scheme)
	ret := &Service{basePath: basePath, fs: fs, logger: zerolog.Nop()}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}
