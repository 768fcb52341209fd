package scene

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Store is the single owner of the scene state. Every read and write goes
// through its methods; each method is one atomic state transition. Operations
// on unknown ids are no-ops.
type Store struct {
	mu      sync.RWMutex
	log     *zap.Logger
	idMu    sync.Mutex
	newID   func() string
	minSpan float64

	objects  map[string]*SceneObject
	selected []string
	registry *MeshRegistry

	// child id -> parent id, for parents not added yet
	pendingParents map[string]string

	camera      CameraSettings
	render      RenderSettings
	viewMode    ViewMode
	environment Environment

	transformMode    TransformMode
	transformEnabled bool

	animTime    float64
	animPlaying bool
	animSpeed   float64

	revision uint64
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIDGenerator replaces GenerateID, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithMinTimelineSpan sets the shortest timeline the clock wraps at, in seconds.
func WithMinTimelineSpan(seconds float64) Option {
	return func(s *Store) {
		if seconds > 0 {
			s.minSpan = seconds
		}
	}
}

func WithCamera(c CameraSettings) Option {
	return func(s *Store) { s.camera = c }
}

func WithRenderSettings(r RenderSettings) Option {
	return func(s *Store) { s.render = r }
}

func WithViewMode(m ViewMode) Option {
	return func(s *Store) { s.viewMode = m }
}

func WithEnvironment(e Environment) Option {
	return func(s *Store) { s.environment = e }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		log:              zap.NewNop(),
		newID:            GenerateID,
		minSpan:          DefaultMinTimelineSpan,
		objects:          make(map[string]*SceneObject),
		pendingParents:   make(map[string]string),
		selected:         []string{},
		registry:         NewMeshRegistry(),
		camera:           DefaultCamera(),
		render:           DefaultRenderSettings(),
		viewMode:         NewViewMode(ViewShaded),
		environment:      DefaultEnvironment(),
		transformMode:    TransformTranslate,
		transformEnabled: true,
		animSpeed:        1.0,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) touch() {
	s.revision++
}

// Revision increases with every operation that changed the state.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// GenerateID returns a fresh object id. Calls are serialized, so custom
// generators need not be goroutine safe.
func (s *Store) GenerateID() string {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	return s.newID()
}

// AddObject inserts obj by id. An existing entry with the same id is
// overwritten. Parent and child links that would form a cycle are dropped.
// Links to objects not added yet are completed when the other side arrives.
func (s *Store) AddObject(obj SceneObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(obj.Clone())
}

func (s *Store) addLocked(o SceneObject) {
	if o.ID == "" {
		s.log.Warn("object without id ignored", zap.String("name", o.Name))
		return
	}
	if prev, ok := s.objects[o.ID]; ok {
		s.log.Warn("overwriting object with existing id", zap.String("id", o.ID))
		if prev.ParentID != o.ParentID {
			s.detachLocked(prev)
		}
		for _, c := range prev.Children {
			if containsID(o.Children, c) {
				continue
			}
			if child, ok := s.objects[c]; ok && child.ParentID == o.ID {
				child.ParentID = ""
			}
		}
	}

	if o.ParentID == "" {
		o.ParentID = s.listingParentLocked(o.ID)
	}
	delete(s.pendingParents, o.ID)
	if o.ParentID != "" {
		if _, ok := s.objects[o.ParentID]; !ok && o.ParentID != o.ID {
			s.log.Debug("parent not added yet", zap.String("id", o.ID), zap.String("parent", o.ParentID))
			s.pendingParents[o.ID] = o.ParentID
			o.ParentID = ""
		} else if o.ParentID == o.ID || s.hasAncestorLocked(o.ParentID, o.ID) {
			s.log.Warn("dropping invalid parent link", zap.String("id", o.ID), zap.String("parent", o.ParentID))
			o.ParentID = ""
		}
	}

	ancestors := s.ancestorsLocked(o.ParentID)
	children := make([]string, 0, len(o.Children))
	for _, c := range o.Children {
		if c == o.ID || ancestors[c] || containsID(children, c) {
			continue
		}
		children = append(children, c)
	}
	if o.Children != nil {
		o.Children = children
	}

	stored := o
	s.objects[o.ID] = &stored

	for pid, p := range s.objects {
		if pid != stored.ParentID && pid != o.ID && containsID(p.Children, o.ID) {
			p.Children = removeID(p.Children, o.ID)
		}
	}
	if o.ParentID != "" {
		parent := s.objects[o.ParentID]
		if !containsID(parent.Children, o.ID) {
			parent.Children = append(parent.Children, o.ID)
		}
	}
	for _, c := range stored.Children {
		child, ok := s.objects[c]
		if !ok || child.ParentID == o.ID {
			continue
		}
		s.detachLocked(child)
		delete(s.pendingParents, c)
		child.ParentID = o.ID
	}
	s.adoptPendingLocked(&stored)
	s.touch()
}

// listingParentLocked returns the live object whose child list names id,
// preferring the smallest id when several do.
func (s *Store) listingParentLocked(id string) string {
	parent := ""
	for pid, p := range s.objects {
		if pid == id || !containsID(p.Children, id) {
			continue
		}
		if parent == "" || pid < parent {
			parent = pid
		}
	}
	return parent
}

// adoptPendingLocked links objects that were added naming parent before it
// existed.
func (s *Store) adoptPendingLocked(parent *SceneObject) {
	var ids []string
	for cid, pid := range s.pendingParents {
		if pid == parent.ID {
			ids = append(ids, cid)
		}
	}
	sort.Strings(ids)
	for _, cid := range ids {
		delete(s.pendingParents, cid)
		child, ok := s.objects[cid]
		if !ok || child.ParentID != "" {
			continue
		}
		if s.hasAncestorLocked(parent.ID, cid) {
			s.log.Warn("dropping invalid parent link", zap.String("id", cid), zap.String("parent", parent.ID))
			continue
		}
		child.ParentID = parent.ID
		if !containsID(parent.Children, cid) {
			parent.Children = append(parent.Children, cid)
		}
	}
}

// RemoveObject deletes id and all of its descendants, detaches it from its
// parent and drops every removed id from the selection. Mesh registry
// entries are left for the renderer to unregister on unmount.
func (s *Store) RemoveObject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[id]
	if !ok {
		s.log.Debug("remove of unknown object", zap.String("id", id))
		return
	}
	s.detachLocked(obj)

	removed := map[string]bool{id: true}
	for _, d := range s.descendantsLocked(id) {
		removed[d] = true
	}
	for rid := range removed {
		delete(s.objects, rid)
		delete(s.pendingParents, rid)
	}

	kept := s.selected[:0:0]
	for _, sid := range s.selected {
		if !removed[sid] {
			kept = append(kept, sid)
		}
	}
	s.selected = kept
	s.touch()
}

// UpdateObject shallow-merges patch into the object.
func (s *Store) UpdateObject(id string, patch ObjectPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateLocked(id, patch)
}

func (s *Store) updateLocked(id string, patch ObjectPatch) bool {
	obj, ok := s.objects[id]
	if !ok {
		s.log.Debug("update of unknown object", zap.String("id", id))
		return false
	}
	patch.apply(obj)
	s.touch()
	return true
}

func (s *Store) SetObjectVisibility(id string, visible bool) {
	s.UpdateObject(id, ObjectPatch{Visible: &visible})
}

func (s *Store) SetObjectLock(id string, locked bool) {
	s.UpdateObject(id, ObjectPatch{Locked: &locked})
}

func (s *Store) RenameObject(id, name string) {
	s.UpdateObject(id, ObjectPatch{Name: &name})
}

// Reparent moves id under parentID, or to the root when parentID is empty.
// Moves that would make an object its own descendant are ignored.
func (s *Store) Reparent(id, parentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reparentLocked(id, parentID)
}

func (s *Store) reparentLocked(id, parentID string) bool {
	obj, ok := s.objects[id]
	if !ok {
		s.log.Debug("reparent of unknown object", zap.String("id", id))
		return false
	}
	delete(s.pendingParents, id)
	if obj.ParentID == parentID {
		return false
	}
	if parentID != "" {
		parent, ok := s.objects[parentID]
		if !ok {
			s.log.Debug("reparent to unknown parent", zap.String("id", id), zap.String("parent", parentID))
			return false
		}
		if parentID == id || s.hasAncestorLocked(parentID, id) {
			s.log.Warn("reparent would create a cycle", zap.String("id", id), zap.String("parent", parentID))
			return false
		}
		s.detachLocked(obj)
		obj.ParentID = parentID
		if !containsID(parent.Children, id) {
			parent.Children = append(parent.Children, id)
		}
	} else {
		s.detachLocked(obj)
	}
	s.touch()
	return true
}

// detachLocked unlinks obj from its parent's child list and clears ParentID.
func (s *Store) detachLocked(obj *SceneObject) {
	if obj.ParentID == "" {
		return
	}
	if parent, ok := s.objects[obj.ParentID]; ok {
		parent.Children = removeID(parent.Children, obj.ID)
	}
	obj.ParentID = ""
}

// hasAncestorLocked reports whether ancestor is id itself or lies on id's parent chain.
func (s *Store) hasAncestorLocked(id, ancestor string) bool {
	return s.ancestorsLocked(id)[ancestor]
}

// ancestorsLocked returns id and every object above it.
func (s *Store) ancestorsLocked(id string) map[string]bool {
	seen := make(map[string]bool)
	for cur := id; cur != "" && !seen[cur]; {
		seen[cur] = true
		obj, ok := s.objects[cur]
		if !ok {
			break
		}
		cur = obj.ParentID
	}
	return seen
}

// descendantsLocked walks the child links of id depth first. Only links
// confirmed by the child's ParentID are followed.
func (s *Store) descendantsLocked(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	var walk func(string)
	walk = func(pid string) {
		parent, ok := s.objects[pid]
		if !ok {
			return
		}
		for _, c := range parent.Children {
			child, ok := s.objects[c]
			if !ok || seen[c] || child.ParentID != pid {
				continue
			}
			seen[c] = true
			walk(c)
			out = append(out, c)
		}
	}
	walk(id)
	return out
}

// Descendants returns the ids below id, deepest first.
func (s *Store) Descendants(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.descendantsLocked(id)
}

func (s *Store) GetObject(id string) (SceneObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[id]
	if !ok {
		return SceneObject{}, false
	}
	return obj.Clone(), true
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Objects returns copies of all objects ordered by name, then id.
func (s *Store) Objects() []SceneObject {
	return s.FilterObjects("")
}

// FilterObjects returns the objects whose name contains term, ignoring case.
func (s *Store) FilterObjects(term string) []SceneObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	term = strings.ToLower(term)
	out := make([]SceneObject, 0, len(s.objects))
	for _, obj := range s.objects {
		if term != "" && !strings.Contains(strings.ToLower(obj.Name), term) {
			continue
		}
		out = append(out, obj.Clone())
	}
	sortObjects(out)
	return out
}

// Roots returns the ids of objects without a parent, ordered like Objects.
func (s *Store) Roots() []string {
	var ids []string
	for _, o := range s.Objects() {
		if o.ParentID == "" {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

func (s *Store) UpdateRenderSettings(p RenderSettingsPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.apply(&s.render)
	s.touch()
}

func (s *Store) SetViewMode(m ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewMode = m
	s.touch()
}

func (s *Store) UpdateCamera(p CameraPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.apply(&s.camera)
	s.touch()
}

func (s *Store) SetEnvironment(e Environment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environment = e
	s.touch()
}

func (s *Store) SetTransformMode(m TransformMode) {
	if !m.Valid() {
		s.log.Warn("unknown transform mode", zap.String("mode", string(m)))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transformMode == m {
		return
	}
	s.transformMode = m
	s.touch()
}

func (s *Store) SetTransformEnabled(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transformEnabled == enabled {
		return
	}
	s.transformEnabled = enabled
	s.touch()
}

func (s *Store) Camera() CameraSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera
}

func (s *Store) RenderSettings() RenderSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.render
}

func (s *Store) ViewMode() ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewMode
}

func (s *Store) Environment() Environment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.environment
}

func (s *Store) TransformMode() TransformMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transformMode
}

func (s *Store) TransformEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transformEnabled
}

// RegisterMesh records the live node of id, replacing any previous handle.
func (s *Store) RegisterMesh(id string, h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry.Register(id, h)
	s.touch()
}

func (s *Store) UnregisterMesh(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.registry.Unregister(id) {
		s.touch()
	}
}

func (s *Store) GetMesh(id string) (Handle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.Get(id)
}

func (s *Store) MountedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry.IDs()
}

// SyncNodes copies the stored transform of every mounted object into its node.
func (s *Store) SyncNodes(acc NodeAccessor) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.registry.IDs() {
		obj, ok := s.objects[id]
		if !ok {
			continue
		}
		h, _ := s.registry.Get(id)
		acc.WriteTransform(h, obj.Transform)
	}
}

// CommitNodeTransform reads the transform of id's mounted node back into the
// store, as after a gizmo drag.
func (s *Store) CommitNodeTransform(id string, acc NodeAccessor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.registry.Get(id)
	if !ok {
		return
	}
	tr, ok := acc.ReadTransform(h)
	if !ok {
		return
	}
	s.updateLocked(id, ObjectPatch{Transform: &tr})
}

// State is a deep copy of everything the store owns.
type State struct {
	Objects          map[string]SceneObject `json:"objects"`
	Selected         []string               `json:"selected"`
	Meshes           map[string]Handle      `json:"meshes"`
	Camera           CameraSettings         `json:"camera"`
	RenderSettings   RenderSettings         `json:"renderSettings"`
	ViewMode         ViewMode               `json:"viewMode"`
	Environment      Environment            `json:"environment"`
	TransformMode    TransformMode          `json:"transformMode"`
	TransformEnabled bool                   `json:"transformEnabled"`
	Clock            ClockState             `json:"clock"`
	TimelineSpan     float64                `json:"timelineSpan"`
	Revision         uint64                 `json:"revision"`
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	objs := make(map[string]SceneObject, len(s.objects))
	for id, o := range s.objects {
		objs[id] = o.Clone()
	}
	return State{
		Objects:          objs,
		Selected:         append([]string{}, s.selected...),
		Meshes:           s.registry.clone(),
		Camera:           s.camera,
		RenderSettings:   s.render,
		ViewMode:         s.viewMode,
		Environment:      s.environment,
		TransformMode:    s.transformMode,
		TransformEnabled: s.transformEnabled,
		Clock:            s.clockLocked(),
		TimelineSpan:     s.timelineSpanLocked(),
		Revision:         s.revision,
	}
}

func sortObjects(objs []SceneObject) {
	sort.Slice(objs, func(i, j int) bool {
		if objs[i].Name != objs[j].Name {
			return objs[i].Name < objs[j].Name
		}
		return objs[i].ID < objs[j].ID
	})
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
