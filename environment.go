package sceneedit

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/gekko3d/sceneedit/scene"
)

var (
	typeHDR = filetype.NewType("hdr", "image/vnd.radiance")
	typeEXR = filetype.NewType("exr", "image/x-exr")
)

func init() {
	filetype.AddMatcher(typeHDR, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte("#?RADIANCE")) || bytes.HasPrefix(buf, []byte("#?RGBE"))
	})
	filetype.AddMatcher(typeEXR, func(buf []byte) bool {
		return bytes.HasPrefix(buf, []byte{0x76, 0x2f, 0x31, 0x01})
	})
}

var environmentExtensions = map[string]bool{
	"hdr": true, "exr": true,
	"png": true, "jpg": true, "jpeg": true,
	"webp": true, "tif": true, "tiff": true, "bmp": true,
}

// EnvironmentFromImage validates an environment map and returns the hdri
// environment that points at uri. High dynamic range images are checked by
// signature; others must have a decodable header.
func EnvironmentFromImage(name, uri string, data []byte) (scene.Environment, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	if !environmentExtensions[ext] {
		return scene.Environment{}, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}

	switch ext {
	case "hdr", "exr":
		kind, _ := filetype.Match(data)
		if kind.Extension != ext {
			return scene.Environment{}, fmt.Errorf("%s: bad %s signature: %w", name, ext, ErrInvalidEnvironment)
		}
	default:
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return scene.Environment{}, fmt.Errorf("%s: %w: %v", name, ErrInvalidEnvironment, err)
		}
		if cfg.Width == 0 || cfg.Height == 0 {
			return scene.Environment{}, fmt.Errorf("%s: empty image: %w", name, ErrInvalidEnvironment)
		}
	}

	return scene.Environment{
		Type:       scene.EnvironmentHDRI,
		HDRIURL:    uri,
		HDRIFormat: ext,
		Intensity:  1.0,
	}, nil
}

// LoadEnvironment validates an environment image and queues it as the scene
// environment. Invalid images are reported and change nothing.
func (im *Importer) LoadEnvironment(name, uri string, data []byte) error {
	env, err := EnvironmentFromImage(name, uri, data)
	if err != nil {
		im.app.Logger().Warnf("Environment %s rejected: %v", name, err)
		im.notify(fmt.Sprintf("Failed to load environment %s", filepath.Base(name)))
		return err
	}
	im.app.Commands().SetEnvironment(env)
	return nil
}

// ClearEnvironment queues a return to the default color background.
func (im *Importer) ClearEnvironment() {
	im.app.Commands().SetEnvironment(scene.DefaultEnvironment())
}
