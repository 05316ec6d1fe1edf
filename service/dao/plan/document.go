package plan

import (
	"fmt"

	"github.com/viant/arcs/internal/yml"
	"github.com/viant/arcs/model/arc"
	model "github.com/viant/arcs/model/plan"
	"gopkg.in/yaml.v3"
)

// Meta identifies a serialized arc.
type Meta struct {
	Name       string `yaml:"name" json:"name"`
	ArcID      string `yaml:"arcId,omitempty" json:"arcId,omitempty"`
	StorageKey string `yaml:"storageKey,omitempty" json:"storageKey,omitempty"`
}

// Document is a serialized arc: its identity, the stores it created and the
// plan it was running.
type Document struct {
	Meta   Meta             `yaml:"meta" json:"meta"`
	Stores []*arc.StoreInfo `yaml:"stores,omitempty" json:"stores,omitempty"`
	Plan   *model.Plan      `yaml:"plan,omitempty" json:"plan,omitempty"`
}

// Validate checks the document can be deserialized.
func (d *Document) Validate() error {
	if d.Meta.Name == "" && d.Meta.ArcID == "" {
		return fmt.Errorf("arc document has neither meta.name nor meta.arcId")
	}
	seen := map[string]bool{}
	for _, store := range d.Stores {
		if store.ID == "" {
			return fmt.Errorf("arc document store without id")
		}
		if seen[store.ID] {
			return fmt.Errorf("arc document store %v declared twice", store.ID)
		}
		seen[store.ID] = true
	}
	return nil
}

// DecodeDocument decodes a YAML arc document.
func DecodeDocument(data []byte) (*Document, error) {
	ret := &Document{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode arc document: %w", err)
	}
	if ret.Plan == nil {
		ret.Plan = model.New(ret.Meta.Name)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// EncodeDocument encodes an arc document as YAML.
func EncodeDocument(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

// DecodePlans decodes either a single plan or a "plans" list.
func DecodePlans(data []byte) ([]*model.Plan, error) {
	root, err := yml.Root(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode plans: %w", err)
	}
	if !root.IsMap() {
		return nil, fmt.Errorf("expected a mapping, got %v", root.Tag)
	}
	if plans := root.Lookup("plans"); plans != nil {
		var ret []*model.Plan
		if err = plans.Decode(&ret); err != nil {
			return nil, fmt.Errorf("failed to decode plans: %w", err)
		}
		return ret, nil
	}
	ret := &model.Plan{}
	if err = root.Decode(ret); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return []*model.Plan{ret}, nil
}
