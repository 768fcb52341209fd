package sceneedit

import (
	"github.com/gekko3d/sceneedit/scene"
)

// AnimationModule drives the global animation clock from the frame delta
// and pushes the clock into every mixer once the frame's edits are applied.
type AnimationModule struct{}

func (AnimationModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(animationClockSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(animationMixerSystem).
			InStage(PostUpdate),
	)
}

func animationClockSystem(t *Time, store *scene.Store) {
	store.AdvanceAnimation(t.Seconds())
}

func animationMixerSystem(store *scene.Store) {
	store.DriveMixers()
}
