package plan

// Direction of a handle connection.
type Direction string

const (
	DirectionReads       Direction = "reads"
	DirectionWrites      Direction = "writes"
	DirectionReadsWrites Direction = "reads writes"
)

// Connection binds a particle's named slot to a plan handle.
type Connection struct {
	Name      string    `json:"name" yaml:"name"`
	Handle    string    `json:"handle" yaml:"handle"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Particle is a unit of executable logic. Location identifies its
// implementation and is what hosts match on.
type Particle struct {
	Name        string        `json:"name" yaml:"name"`
	Location    string        `json:"location" yaml:"location"`
	Connections []*Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// Clone returns a deep copy.
func (p *Particle) Clone() *Particle {
	if p == nil {
		return nil
	}
	ret := &Particle{Name: p.Name, Location: p.Location}
	for _, c := range p.Connections {
		conn := *c
		ret.Connections = append(ret.Connections, &conn)
	}
	return ret
}
