package sceneedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gekko3d/sceneedit/scene"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger(LogConfig{Encoding: "json", Prefix: "editor"})
	require.NoError(t, err)
	assert.False(t, l.DebugEnabled())

	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
	l.SetDebug(false)
	assert.False(t, l.DebugEnabled())

	_, err = NewLogger(LogConfig{Encoding: "xml"})
	assert.Error(t, err)

	assert.NotNil(t, NewDefaultLogger("", true).Zap())
}

func TestApp_LoggerFallsBackToNop(t *testing.T) {
	var app *App
	assert.NotNil(t, app.Logger())

	app = NewApp()
	assert.False(t, app.Logger().DebugEnabled())

	logger := NewDefaultLogger("test", true)
	app.UseModules(LoggingModule{Logger: logger})
	assert.Same(t, logger, app.Logger())
}

func TestStoreLogsThroughZap(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	app := NewApp(scene.WithLogger(zap.New(core)))

	app.Store().SetTransformMode("shear")
	app.Store().SetAnimationSpeed(-1)

	assert.GreaterOrEqual(t, logs.Len(), 2)
	assert.Equal(t, scene.TransformTranslate, app.Store().TransformMode())
	assert.Equal(t, 1.0, app.Store().ClockState().Speed)
}
