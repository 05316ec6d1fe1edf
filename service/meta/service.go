// Package meta loads configuration and plan documents from any afs URL,
// expanding ${env.KEY} expressions before decoding.
package meta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service reads documents relative to a base URL.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// New creates a meta service; relative URLs are resolved against baseURL.
// Options, such as an embed.FS, are passed to every file system call.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	if baseURL != "" {
		baseURL = url.Normalize(baseURL, file.Scheme)
	}
	return &Service{fs: fs, baseURL: baseURL, options: options}
}

// FS returns the underlying file system service.
func (s *Service) FS() afs.Service { return s.fs }

// URL resolves location against the base URL.
func (s *Service) URL(location string) string {
	if url.IsRelative(location) && s.baseURL != "" {
		return url.Join(s.baseURL, location)
	}
	return url.Normalize(location, file.Scheme)
}

// Download returns the env-expanded content at URL.
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.URL(URL), s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %v: %w", URL, err)
	}
	return []byte(ExpandEnv(string(data))), nil
}

// Load decodes the document at URL into dest by its extension: .toml, .json
// or YAML otherwise.
func (s *Service) Load(ctx context.Context, URL string, dest interface{}) error {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return err
	}
	if err = Decode(path.Ext(URL), data, dest); err != nil {
		return fmt.Errorf("failed to decode %v: %w", URL, err)
	}
	return nil
}

// Decode decodes data by extension.
func Decode(ext string, data []byte, dest interface{}) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(dest)
		return err
	case "json":
		return json.Unmarshal(data, dest)
	}
	return yaml.Unmarshal(data, dest)
}

// List returns URLs of the documents under URL with one of the extensions.
func (s *Service) List(ctx context.Context, URL string, extensions ...string) ([]string, error) {
	objects, err := s.fs.List(ctx, s.URL(URL), s.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %v: %w", URL, err)
	}
	var ret []string
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		ext := strings.ToLower(path.Ext(object.Name()))
		for _, candidate := range extensions {
			if ext == candidate {
				ret = append(ret, object.URL())
				break
			}
		}
	}
	return ret, nil
}
