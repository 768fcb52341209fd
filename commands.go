package sceneedit

import (
	"github.com/gekko3d/sceneedit/scene"
)

// Commands is the write side of the App. Store mutations queued here are
// applied at the end of the current stage, or at the next stage boundary
// when queued from another goroutine.
type Commands struct {
	app *App
}

func (cmd *Commands) AddResources(resources ...any) *Commands {
	cmd.app.addResources(resources...)
	return cmd
}

func (cmd *Commands) UseSystem(system systemScheduleBuilder) *Commands {
	cmd.app.UseSystem(system)
	return cmd
}

// Do queues an arbitrary store mutation. name shows up in debug logs.
func (cmd *Commands) Do(name string, fn func(*scene.Store)) {
	cmd.app.enqueue(storeOp{name: name, fn: fn})
}

func (cmd *Commands) AddObject(obj scene.SceneObject) {
	obj = obj.Clone()
	cmd.Do("add "+obj.ID, func(s *scene.Store) { s.AddObject(obj) })
}

func (cmd *Commands) RemoveObject(id string) {
	cmd.Do("remove "+id, func(s *scene.Store) { s.RemoveObject(id) })
}

func (cmd *Commands) UpdateObject(id string, patch scene.ObjectPatch) {
	patch = patch.Clone()
	cmd.Do("update "+id, func(s *scene.Store) { s.UpdateObject(id, patch) })
}

func (cmd *Commands) SelectObject(id string, additive bool) {
	cmd.Do("select "+id, func(s *scene.Store) { s.SelectObject(id, additive) })
}

func (cmd *Commands) SetEnvironment(env scene.Environment) {
	cmd.Do("environment", func(s *scene.Store) { s.SetEnvironment(env) })
}

// Store gives direct read access. Writes should go through the queue.
func (cmd *Commands) Store() *scene.Store {
	return cmd.app.store
}

func (cmd *Commands) Logger() Logger {
	return cmd.app.Logger()
}
