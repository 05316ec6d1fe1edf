package idgen

import (
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// NewFunc returns a new globally unique identifier as string. It is a variable
// so tests can stub it.
var NewFunc = func() string { return uuid.New().String() }

func New() string { return NewFunc() }

// Generator produces identifiers scoped to a single session. Arc ids take the
// form "!<session>:<name>", child ids append ":<component><sequence>" to their
// parent id.
type Generator struct {
	session string
	next    int
	mux     sync.Mutex
}

// NewSession creates a generator with a fresh random session.
func NewSession() *Generator {
	session := strings.ReplaceAll(New(), "-", "")
	if len(session) > 16 {
		session = session[:16]
	}
	return &Generator{session: session}
}

// NewSessionWith creates a generator for a known session, used when replaying
// serialized arcs.
func NewSessionWith(session string) *Generator {
	return &Generator{session: session}
}

// Session returns the session component.
func (g *Generator) Session() string {
	return g.session
}

// NewArcID returns a new arc id for the given name.
func (g *Generator) NewArcID(name string) string {
	if name == "" {
		name = "arc" + strconv.Itoa(g.sequence())
	}
	return "!" + g.session + ":" + name
}

// NewChildID returns an id nested under parent.
func (g *Generator) NewChildID(parent, component string) string {
	return parent + ":" + component + strconv.Itoa(g.sequence())
}

func (g *Generator) sequence() int {
	g.mux.Lock()
	defer g.mux.Unlock()
	ret := g.next
	g.next++
	return ret
}

// SessionOf extracts the session of an arc id of the form "!<session>:<name>".
func SessionOf(arcID string) (string, bool) {
	if !strings.HasPrefix(arcID, "!") {
		return "", false
	}
	idx := strings.Index(arcID, ":")
	if idx <= 1 {
		return "", false
	}
	return arcID[1:idx], true
}
