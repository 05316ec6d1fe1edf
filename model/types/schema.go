package types

import (
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Schema describes entity fields.
type Schema struct {
	Names  []string          `json:"names,omitempty" yaml:"names,omitempty"`
	Fields map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Name returns the primary schema name.
func (s *Schema) Name() string {
	if s == nil || len(s.Names) == 0 {
		return ""
	}
	return s.Names[0]
}

// Hash returns a stable fingerprint of the schema, independent of field order.
func (s *Schema) Hash() string {
	if s == nil {
		return ""
	}
	fields := make([]string, 0, len(s.Fields))
	for name, kind := range s.Fields {
		fields = append(fields, name+":"+kind)
	}
	sort.Strings(fields)
	canonical := strings.Join(s.Names, ",") + "|" + strings.Join(fields, ",")
	sum := blake2b.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:20])
}

// Clone returns a deep copy.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	ret := &Schema{Names: append([]string(nil), s.Names...)}
	if s.Fields != nil {
		ret.Fields = make(map[string]string, len(s.Fields))
		for k, v := range s.Fields {
			ret.Fields[k] = v
		}
	}
	return ret
}
