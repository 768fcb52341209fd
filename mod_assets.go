package sceneedit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/h2non/filetype"
	"golang.org/x/sync/errgroup"

	"github.com/gekko3d/sceneedit/scene"
)

type ModelFormat string

const (
	FormatGLB  ModelFormat = "glb"
	FormatGLTF ModelFormat = "gltf"
	FormatFBX  ModelFormat = "fbx"
)

var (
	typeGLB = filetype.NewType("glb", "model/gltf-binary")
	typeFBX = filetype.NewType("fbx", "application/octet-stream")
)

func init() {
	filetype.AddMatcher(typeGLB, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("glTF"))
	})
	filetype.AddMatcher(typeFBX, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("Kaydara FBX Binary"))
	})
}

// DetectFormat identifies a model file from its content, falling back to the
// extension for text formats (glTF JSON, ASCII FBX).
func DetectFormat(name string, data []byte) (ModelFormat, error) {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		switch kind.Extension {
		case typeGLB.Extension:
			return FormatGLB, nil
		case typeFBX.Extension:
			return FormatFBX, nil
		}
		return "", fmt.Errorf("%s is %s: %w", name, kind.MIME.Value, ErrUnsupportedFormat)
	}

	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")); ext {
	case "gltf":
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			return FormatGLTF, nil
		}
	case "fbx":
		if bytes.Contains(data[:min(len(data), 256)], []byte("FBX")) {
			return FormatFBX, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
}

type LoadedClip struct {
	Name     string
	Duration float64 // seconds
	Data     any
}

// LoadedModel is what a Loader hands back: the renderer node of the model
// plus its animation clips and the mixer that plays them.
type LoadedModel struct {
	Node  scene.Handle
	Clips []LoadedClip
	Mixer scene.Mixer
}

type Loader interface {
	Load(ctx context.Context, name string, data []byte) (*LoadedModel, error)
}

type LoaderFunc func(ctx context.Context, name string, data []byte) (*LoadedModel, error)

func (f LoaderFunc) Load(ctx context.Context, name string, data []byte) (*LoadedModel, error) {
	return f(ctx, name, data)
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// Importer turns model files into scene objects. Imports run in the
// background and land in the store through the command queue. A failed
// import notifies the user and leaves the store untouched.
type Importer struct {
	mu       sync.RWMutex
	loaders  map[ModelFormat]Loader
	notifier Notifier

	app   *App
	newID func() string
	wg    sync.WaitGroup
}

func (im *Importer) RegisterLoader(format ModelFormat, l Loader) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.loaders[format] = l
}

func (im *Importer) SetNotifier(n Notifier) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.notifier = n
}

func (im *Importer) notify(msg string) {
	im.mu.RLock()
	n := im.notifier
	im.mu.RUnlock()
	if n != nil {
		n.Notify(msg)
	}
}

// Build parses data and returns the object it describes without touching
// the store.
func (im *Importer) Build(ctx context.Context, name string, data []byte) (scene.SceneObject, error) {
	format, err := DetectFormat(name, data)
	if err != nil {
		return scene.SceneObject{}, err
	}
	im.mu.RLock()
	loader, ok := im.loaders[format]
	im.mu.RUnlock()
	if !ok {
		return scene.SceneObject{}, fmt.Errorf("%s: %w: %s", name, ErrNoLoader, format)
	}

	model, err := loader.Load(ctx, name, data)
	if err != nil {
		return scene.SceneObject{}, fmt.Errorf("load %s: %w", name, err)
	}
	if model == nil {
		return scene.SceneObject{}, fmt.Errorf("load %s: loader returned no model", name)
	}
	return im.objectFromModel(name, model), nil
}

func (im *Importer) objectFromModel(name string, model *LoadedModel) scene.SceneObject {
	id := im.newID()
	base := filepath.Base(name)
	obj := scene.SceneObject{
		ID:        id,
		Name:      strings.TrimSuffix(base, filepath.Ext(base)),
		Kind:      scene.KindMesh,
		Transform: scene.NewTransform(),
		Node:      model.Node,
		Visible:   true,
	}
	if len(model.Clips) == 0 {
		return obj
	}

	anim := &scene.AnimationState{Loop: true, Mixer: model.Mixer}
	for i, c := range model.Clips {
		clip := scene.Clip{
			ID:       scene.ClipID(id, i),
			Name:     c.Name,
			Duration: c.Duration,
			Data:     c.Data,
		}
		if clip.Name == "" {
			clip.Name = scene.DefaultClipName(i)
		}
		anim.Clips = append(anim.Clips, clip)
		anim.ActiveClips = append(anim.ActiveClips, clip.ID)
	}
	obj.Animation = anim
	return obj
}

// Import loads one file in the background.
func (im *Importer) Import(ctx context.Context, name string, data []byte) {
	im.wg.Add(1)
	go func() {
		defer im.wg.Done()
		_ = im.importNow(ctx, name, data)
	}()
}

func (im *Importer) importNow(ctx context.Context, name string, data []byte) error {
	obj, err := im.Build(ctx, name, data)
	if err != nil {
		im.app.Logger().Errorf("Import of %s failed: %v", name, err)
		im.notify(fmt.Sprintf("Failed to load %s: %v", filepath.Base(name), err))
		return err
	}
	im.app.Logger().Infof("Imported %s as %s (%d clips)", name, obj.ID, clipCount(obj))
	im.app.Commands().AddObject(obj)
	return nil
}

// ImportFiles reads and imports the given paths concurrently. Every file is
// handled on its own; the first failure is returned after all have finished.
func (im *Importer) ImportFiles(ctx context.Context, paths ...string) error {
	var g errgroup.Group
	g.SetLimit(4)
	for _, p := range paths {
		p := p
		g.Go(func() error {
			data, err := os.ReadFile(p)
			if err != nil {
				im.notify(fmt.Sprintf("Failed to read %s", filepath.Base(p)))
				return fmt.Errorf("read %s: %w", p, err)
			}
			return im.importNow(ctx, p, data)
		})
	}
	return g.Wait()
}

// Wait blocks until background imports are done.
func (im *Importer) Wait() {
	im.wg.Wait()
}

func clipCount(obj scene.SceneObject) int {
	if obj.Animation == nil {
		return 0
	}
	return len(obj.Animation.Clips)
}

// ImportModule installs the Importer resource. Loaders can be passed here or
// registered later.
type ImportModule struct {
	Loaders  map[ModelFormat]Loader
	Notifier Notifier
}

func (m ImportModule) Install(app *App, cmd *Commands) {
	im := &Importer{
		loaders:  make(map[ModelFormat]Loader),
		notifier: m.Notifier,
		app:      app,
		newID:    app.store.GenerateID,
	}
	for f, l := range m.Loaders {
		im.loaders[f] = l
	}
	app.addResources(im)
}
