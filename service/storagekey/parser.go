package storagekey

import (
	"fmt"
	"strings"
	"sync"
)

// ParseFunc parses the body of a key (the part after "<protocol>://").
type ParseFunc func(parser *Parser, body string) (StorageKey, error)

// Parser turns key strings back into StorageKey values.
type Parser struct {
	mux     sync.RWMutex
	parsers map[string]ParseFunc
}

// NewParser returns a parser that understands the built-in protocols.
func NewParser() *Parser {
	ret := &Parser{parsers: map[string]ParseFunc{}}
	ret.Register(ProtocolVolatile, parseVolatile)
	ret.Register(ProtocolRamDisk, parseRamDisk)
	ret.Register(ProtocolDatabase, parseDatabase(true))
	ret.Register(ProtocolMemoryDatabase, parseDatabase(false))
	ret.Register(ProtocolReferenceMode, parseReferenceMode)
	return ret
}

// Register adds or replaces the parser of a protocol.
func (p *Parser) Register(protocol string, fn ParseFunc) {
	p.mux.Lock()
	defer p.mux.Unlock()
	p.parsers[protocol] = fn
}

// Parse parses a "<protocol>://<body>" key.
func (p *Parser) Parse(key string) (StorageKey, error) {
	idx := strings.Index(key, "://")
	if idx <= 0 {
		return nil, fmt.Errorf("invalid storage key %q", key)
	}
	protocol, body := key[:idx], key[idx+3:]
	p.mux.RLock()
	fn, ok := p.parsers[protocol]
	p.mux.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownProtocol, protocol)
	}
	return fn(p, body)
}

func parseVolatile(_ *Parser, body string) (StorageKey, error) {
	idx := strings.Index(body, "/")
	if idx <= 0 {
		return nil, fmt.Errorf("invalid volatile key body %q", body)
	}
	return &VolatileKey{ArcID: body[:idx], Path: body[idx+1:]}, nil
}

func parseRamDisk(_ *Parser, body string) (StorageKey, error) {
	return &RamDiskKey{Path: body}, nil
}

func parseDatabase(persistent bool) ParseFunc {
	return func(_ *Parser, body string) (StorageKey, error) {
		at := strings.Index(body, "@")
		if at <= 0 {
			return nil, fmt.Errorf("invalid database key body %q", body)
		}
		rest := body[at+1:]
		slash := strings.Index(rest, "/")
		if slash <= 0 {
			return nil, fmt.Errorf("invalid database key body %q", body)
		}
		return &DatabaseKey{
			Persistent: persistent,
			SchemaHash: body[:at],
			DBName:     rest[:slash],
			Path:       rest[slash+1:],
		}, nil
	}
}

func parseReferenceMode(p *Parser, body string) (StorageKey, error) {
	backing, rest, err := braced(body)
	if err != nil {
		return nil, err
	}
	storage, rest, err := braced(rest)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("invalid reference mode key body %q", body)
	}
	backingKey, err := p.Parse(backing)
	if err != nil {
		return nil, err
	}
	storageKey, err := p.Parse(storage)
	if err != nil {
		return nil, err
	}
	return &ReferenceModeKey{Backing: backingKey, Storage: storageKey}, nil
}

// braced extracts the content of a leading {...} group, honouring nesting.
func braced(text string) (string, string, error) {
	if !strings.HasPrefix(text, "{") {
		return "", "", fmt.Errorf("expected '{' in %q", text)
	}
	depth := 0
	for i, r := range text {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[1:i], text[i+1:], nil
			}
		}
	}
	return "", "", fmt.Errorf("unbalanced braces in %q", text)
}
