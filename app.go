package sceneedit

import (
	"context"
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"time"

	"github.com/gekko3d/sceneedit/scene"
)

type systemFn any

// Module installs resources and systems into an App.
type Module interface {
	Install(app *App, cmd *Commands)
}

const DefaultFrameRate = 60

type App struct {
	stages    []Stage
	systems   map[string][]systemFn
	resources map[reflect.Type]any
	store     *scene.Store

	frameInterval time.Duration
	frame         uint64

	// Command buffering
	mu      sync.Mutex
	pending []storeOp
}

type storeOp struct {
	name string
	fn   func(*scene.Store)
}

// NewApp builds an App around a fresh store. The store is registered as a
// resource, so systems can take a *scene.Store argument.
func NewApp(opts ...scene.Option) *App {
	app := &App{
		systems:       make(map[string][]systemFn),
		resources:     make(map[reflect.Type]any),
		store:         scene.NewStore(opts...),
		frameInterval: time.Second / DefaultFrameRate,
	}
	for _, stage := range defaultStages {
		app.stages = append(app.stages, stage)
		app.initStage(stage)
	}
	app.addResources(app.store)
	return app
}

func (app *App) UseModules(modules ...Module) *App {
	cmd := app.Commands()
	for _, m := range modules {
		m.Install(app, cmd)
	}
	return app
}

func (app *App) Commands() *Commands {
	return &Commands{
		app: app,
	}
}

func (app *App) Store() *scene.Store {
	return app.store
}

// Frame is the number of frames stepped so far.
func (app *App) Frame() uint64 {
	return app.frame
}

// SetFrameRate changes how often Run steps. Non-positive rates are ignored.
func (app *App) SetFrameRate(fps int) *App {
	if fps > 0 {
		app.frameInterval = time.Second / time.Duration(fps)
	}
	return app
}

// Step runs every stage once, flushing queued commands after each stage.
func (app *App) Step() {
	app.callSystems()
	app.frame++
}

// Run steps the app at the configured frame rate until ctx is done.
func (app *App) Run(ctx context.Context) error {
	app.Logger().Infof("Running at %v per frame", app.frameInterval)

	ticker := time.NewTicker(app.frameInterval)
	defer ticker.Stop()

	// drain anything queued during install
	app.FlushCommands()
	for {
		select {
		case <-ctx.Done():
			app.FlushCommands()
			app.Logger().Infof("Stopped after %d frames", app.frame)
			return nil
		case <-ticker.C:
			app.Step()
		}
	}
}

func (app *App) callSystems() {
	for _, stage := range app.stages {
		for _, system := range app.systems[stage.Name] {
			app.callSystem(system)
		}
		app.FlushCommands()
	}
}

func (app *App) addResources(resources ...any) *App {
	for _, resource := range resources {
		resourceType := reflect.TypeOf(resource)
		if _, ok := app.resources[resourceType.Elem()]; ok {
			panic(fmt.Sprintf("%s is already in resources", resourceType))
		}

		app.resources[resourceType.Elem()] = resource
	}
	return app
}

// Resource looks up the resource of type *T.
func Resource[T any](app *App) (*T, bool) {
	r, ok := app.resources[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		return nil, false
	}
	v, ok := r.(*T)
	return v, ok
}

func (app *App) callSystem(system systemFn) {
	app.callSystemInternal(system)
}

var typeOfCommands = reflect.TypeOf(Commands{})

func (app *App) callSystemInternal(system systemFn) {
	systemType := reflect.TypeOf(system)
	systemValue := reflect.ValueOf(system)

	args := make([]reflect.Value, systemType.NumIn())

	for i := 0; i < systemType.NumIn(); i++ {
		argType := systemType.In(i)
		if argType.Kind() != reflect.Pointer {
			panic(fmt.Sprintf("system %s: argument %d must be a pointer, got %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(), i, argType))
		}
		underlyingType := argType.Elem()

		if underlyingType == typeOfCommands {
			args[i] = reflect.ValueOf(&Commands{app: app})
		} else if resource, argIsResource := app.resources[underlyingType]; argIsResource {
			args[i] = reflect.ValueOf(resource)
		} else {
			msg := fmt.Sprintf("Unable to resolve System dependency.\nSystem: %s\nSystem type: %s\nDependency: %s",
				runtime.FuncForPC(systemValue.Pointer()).Name(),
				fmt.Sprint(systemType),
				fmt.Sprint(argType),
			)
			app.Logger().Errorf("%s", msg)
			panic(msg)
		}
	}
	systemValue.Call(args)
}

func (app *App) enqueue(op storeOp) {
	app.mu.Lock()
	app.pending = append(app.pending, op)
	app.mu.Unlock()
}

// FlushCommands applies queued store mutations in the order they were queued.
// Mutations queued while flushing run on the next flush.
func (app *App) FlushCommands() {
	app.mu.Lock()
	ops := app.pending
	app.pending = nil
	app.mu.Unlock()

	if len(ops) == 0 {
		return
	}
	log := app.Logger()
	for _, op := range ops {
		if log.DebugEnabled() {
			log.Debugf("FLUSH: %s", op.name)
		}
		op.fn(app.store)
	}
}

// PendingCommands reports how many mutations wait for the next flush.
func (app *App) PendingCommands() int {
	app.mu.Lock()
	defer app.mu.Unlock()
	return len(app.pending)
}

// ensureResource returns the *T resource, creating it with mk when missing.
func ensureResource[T any](app *App, mk func() *T) *T {
	if r, ok := Resource[T](app); ok {
		return r
	}
	r := mk()
	app.addResources(r)
	return r
}
