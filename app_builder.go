package sceneedit

import (
	"github.com/gekko3d/sceneedit/scene"
)

type AppBuilder struct {
	storeOpts []scene.Option
	modules   []Module
	frameRate int
}

func NewAppBuilder() *AppBuilder {
	return &AppBuilder{frameRate: DefaultFrameRate}
}

func (b *AppBuilder) UseStoreOptions(opts ...scene.Option) *AppBuilder {
	b.storeOpts = append(b.storeOpts, opts...)
	return b
}

func (b *AppBuilder) UseFrameRate(fps int) *AppBuilder {
	b.frameRate = fps
	return b
}

func (b *AppBuilder) UseModule(modules ...Module) *AppBuilder {
	b.modules = append(b.modules, modules...)

	return b
}

// Build creates the app and installs the modules in the order they were added.
func (b *AppBuilder) Build() *App {
	app := NewApp(b.storeOpts...)
	app.SetFrameRate(b.frameRate)
	commands := &Commands{app: app}

	for _, module := range b.modules {
		module.Install(app, commands)
	}

	return app
}
