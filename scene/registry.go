package scene

import "sort"

// MeshRegistry maps object ids to the live renderer node they are mounted as.
// Entries follow renderer mount/unmount, independent of the object table.
type MeshRegistry struct {
	handles map[string]Handle
}

func NewMeshRegistry() *MeshRegistry {
	return &MeshRegistry{handles: make(map[string]Handle)}
}

func (r *MeshRegistry) Register(id string, h Handle) {
	r.handles[id] = h
}

func (r *MeshRegistry) Unregister(id string) bool {
	if _, ok := r.handles[id]; !ok {
		return false
	}
	delete(r.handles, id)
	return true
}

func (r *MeshRegistry) Get(id string) (Handle, bool) {
	h, ok := r.handles[id]
	return h, ok
}

func (r *MeshRegistry) Len() int {
	return len(r.handles)
}

// IDs returns the mounted ids in sorted order.
func (r *MeshRegistry) IDs() []string {
	ids := make([]string, 0, len(r.handles))
	for id := range r.handles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *MeshRegistry) clone() map[string]Handle {
	cp := make(map[string]Handle, len(r.handles))
	for id, h := range r.handles {
		cp[id] = h
	}
	return cp
}
