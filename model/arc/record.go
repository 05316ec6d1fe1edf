package arc

import "time"

// Record is the persisted form of Info used by arc registries.
type Record struct {
	ID          string             `json:"id"`
	OuterArcID  string             `json:"outerArcId,omitempty"`
	StorageKey  string             `json:"storageKey,omitempty"`
	Session     string             `json:"session,omitempty"`
	InnerArcIDs []string           `json:"innerArcIds,omitempty"`
	Partitions  []*PartitionRecord `json:"partitions,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// PartitionRecord is the persisted form of Partition.
type PartitionRecord struct {
	HostID        string   `json:"host"`
	Particles     []string `json:"particles"`
	Reinstantiate bool     `json:"reinstantiate,omitempty"`
}

// Hosts returns the distinct host ids of the record.
func (r *Record) Hosts() []string {
	var ret []string
	seen := map[string]bool{}
	for _, p := range r.Partitions {
		if seen[p.HostID] {
			continue
		}
		seen[p.HostID] = true
		ret = append(ret, p.HostID)
	}
	return ret
}
