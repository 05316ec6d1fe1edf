// Package plan keeps the catalog of named plans an arc can be started with
// and decodes serialized arc documents.
package plan

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	model "github.com/viant/arcs/model/plan"
	"github.com/viant/arcs/service/meta"
)

var extensions = []string{".yaml", ".yml"}

// Catalog holds frozen plans by name.
type Catalog struct {
	meta  *meta.Service
	mux   sync.RWMutex
	plans map[string]*model.Plan
	order []string
}

// New creates a catalog reading documents through metaService.
func New(metaService *meta.Service) *Catalog {
	if metaService == nil {
		metaService = meta.New(nil, "")
	}
	return &Catalog{meta: metaService, plans: map[string]*model.Plan{}}
}

// Add validates, freezes and registers plans; names must be unique.
func (c *Catalog) Add(plans ...*model.Plan) error {
	c.mux.Lock()
	defer c.mux.Unlock()
	for _, aPlan := range plans {
		if aPlan.Name == "" {
			return fmt.Errorf("plan name was empty")
		}
		if _, ok := c.plans[aPlan.Name]; ok {
			return fmt.Errorf("plan %v already in catalog", aPlan.Name)
		}
		if issues := aPlan.Validate(); len(issues) > 0 {
			return fmt.Errorf("invalid plan %v: %w", aPlan.Name, issues[0])
		}
		c.plans[aPlan.Name] = aPlan.Freeze()
		c.order = append(c.order, aPlan.Name)
	}
	return nil
}

// Load adds the plans of a YAML file, or of every YAML file in a folder.
func (c *Catalog) Load(ctx context.Context, URL string) error {
	URLs := []string{URL}
	if !isDocument(URL) {
		listed, err := c.meta.List(ctx, URL, extensions...)
		if err != nil {
			return err
		}
		URLs = listed
	}
	for _, candidate := range URLs {
		data, err := c.meta.Download(ctx, candidate)
		if err != nil {
			return err
		}
		plans, err := DecodePlans(data)
		if err != nil {
			return fmt.Errorf("%v: %w", candidate, err)
		}
		if err = c.Add(plans...); err != nil {
			return fmt.Errorf("%v: %w", candidate, err)
		}
	}
	return nil
}

func isDocument(URL string) bool {
	ext := strings.ToLower(path.Ext(URL))
	for _, candidate := range extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// LoadDocument reads a serialized arc document.
func (c *Catalog) LoadDocument(ctx context.Context, URL string) (*Document, error) {
	data, err := c.meta.Download(ctx, URL)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(data)
}

// Lookup returns a frozen plan by name.
func (c *Catalog) Lookup(name string) (*model.Plan, bool) {
	c.mux.RLock()
	defer c.mux.RUnlock()
	ret, ok := c.plans[name]
	return ret, ok
}

// All returns plans in registration order.
func (c *Catalog) All() []*model.Plan {
	c.mux.RLock()
	defer c.mux.RUnlock()
	ret := make([]*model.Plan, 0, len(c.order))
	for _, name := range c.order {
		ret = append(ret, c.plans[name])
	}
	return ret
}
