package core

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io/fs"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"non-destructive-image-editor/internal/algorithms"
	"non-destructive-image-editor/internal/raster"
)

// memCodec keeps images in memory keyed by path.
type memCodec struct {
	files    map[string]*image.NRGBA
	writeErr error
}

func newMemCodec() *memCodec {
	return &memCodec{files: make(map[string]*image.NRGBA)}
}

func (c *memCodec) Read(path string) (*image.NRGBA, error) {
	img, ok := c.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return raster.Clone(img), nil
}

func (c *memCodec) Write(img *image.NRGBA, path string) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.files[path] = raster.Clone(img)
	return nil
}

func testImage() *image.NRGBA {
	img := raster.New(6, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(40 * x), G: uint8(60 * y), B: uint8(x + y), A: 255})
		}
	}
	return img
}

// openSession returns a session opened on a fresh image in a temp dir.
func openSession(t *testing.T) (*EditableImage, *memCodec, string) {
	t.Helper()
	codec := newMemCodec()
	path := filepath.Join(t.TempDir(), "photo.png")
	codec.files[path] = testImage()

	session := NewEditableImage(codec, nil)
	require.NoError(t, session.Open(path))
	return session, codec, path
}

func fold(src *image.NRGBA, ops ...algorithms.Operation) *image.NRGBA {
	out := raster.Clone(src)
	for _, op := range ops {
		out = op.Apply(out)
	}
	return out
}

func mustOp[T algorithms.Operation](t *testing.T) func(T, error) algorithms.Operation {
	return func(op T, err error) algorithms.Operation {
		t.Helper()
		require.NoError(t, err)
		return op
	}
}

func TestEmptySession(t *testing.T) {
	session := NewEditableImage(newMemCodec(), nil)

	assert.False(t, session.HasImage())
	assert.Nil(t, session.Current())
	assert.ErrorIs(t, session.Apply(algorithms.InvertColour{}), ErrNoImage)
	assert.ErrorIs(t, session.Undo(), ErrEmptyHistory)
	assert.ErrorIs(t, session.Redo(), ErrEmptyRedo)
	assert.ErrorIs(t, session.Repeat(), ErrEmptyHistory)
	assert.ErrorIs(t, session.Save(), ErrNoImage)
	assert.ErrorIs(t, session.Export("x.png"), ErrNoImage)
}

func TestOpenFailureLeavesSessionUnchanged(t *testing.T) {
	session, _, path := openSession(t)
	require.NoError(t, session.Apply(algorithms.InvertColour{}))
	before := session.Current()

	err := session.Open(filepath.Join(t.TempDir(), "missing.png"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	assert.Equal(t, path, session.ImagePath())
	assert.Len(t, session.Ops(), 1)
	assert.True(t, raster.Equal(before, session.Current()))
}

func TestOpenRejectsEmptyImage(t *testing.T) {
	codec := newMemCodec()
	codec.files["empty.png"] = raster.New(0, 0)

	session := NewEditableImage(codec, nil)
	var loadErr *LoadError
	assert.ErrorAs(t, session.Open("empty.png"), &loadErr)
	assert.False(t, session.HasImage())
}

func TestOpenSetsMetadata(t *testing.T) {
	session, _, path := openSession(t)
	assert.Equal(t, ImageMetadata{Width: 6, Height: 4, Format: "png"}, session.Metadata())
	assert.Equal(t, path+".ops", session.OpsPath())
	assert.True(t, raster.Equal(testImage(), session.Current()))
}

func TestInvertRedThroughSession(t *testing.T) {
	codec := newMemCodec()
	codec.files["red.png"] = raster.Filled(4, 4, color.NRGBA{R: 255, A: 255})
	session := NewEditableImage(codec, nil)
	require.NoError(t, session.Open("red.png"))

	require.NoError(t, session.Apply(algorithms.InvertColour{}))
	assert.True(t, raster.Equal(raster.Filled(4, 4, color.NRGBA{G: 255, B: 255, A: 255}), session.Current()))
}

func TestUndoRedo(t *testing.T) {
	session, _, _ := openSession(t)
	a := mustOp[algorithms.BrightnessContrast](t)(algorithms.NewBrightnessContrast(30, 10))
	b := algorithms.RotateLeft{}

	require.NoError(t, session.Apply(a))
	require.NoError(t, session.Apply(b))

	require.NoError(t, session.Undo())
	assert.True(t, raster.Equal(fold(testImage(), a), session.Current()))
	assert.Equal(t, []algorithms.Operation{a}, session.Ops())
	assert.Equal(t, []algorithms.Operation{b}, session.RedoOps())
	assert.True(t, session.CanRedo())

	require.NoError(t, session.Redo())
	assert.True(t, raster.Equal(fold(testImage(), a, b), session.Current()))
	assert.Equal(t, []algorithms.Operation{a, b}, session.Ops())
	assert.False(t, session.CanRedo())

	require.NoError(t, session.Undo())
	require.NoError(t, session.Undo())
	assert.True(t, raster.Equal(testImage(), session.Current()))
	assert.False(t, session.CanUndo())
	assert.ErrorIs(t, session.Undo(), ErrEmptyHistory)
}

func TestNewActionClearsRedo(t *testing.T) {
	session, _, _ := openSession(t)
	require.NoError(t, session.Apply(algorithms.InvertColour{}))
	require.NoError(t, session.Undo())
	require.NoError(t, session.Apply(algorithms.FlipVertical{}))

	assert.ErrorIs(t, session.Redo(), ErrEmptyRedo)
	assert.Equal(t, []algorithms.Operation{algorithms.FlipVertical{}}, session.Ops())
}

func TestChainedRedoKeepsRemainingEntries(t *testing.T) {
	session, _, _ := openSession(t)
	ops := []algorithms.Operation{
		algorithms.InvertColour{},
		algorithms.RotateRight{},
		mustOp[algorithms.ChannelCycle](t)(algorithms.NewChannelCycle(3)),
	}
	for _, op := range ops {
		require.NoError(t, session.Apply(op))
	}
	for range ops {
		require.NoError(t, session.Undo())
	}
	assert.True(t, raster.Equal(testImage(), session.Current()))

	for i := range ops {
		require.NoError(t, session.Redo())
		assert.Equal(t, ops[:i+1], session.Ops())
		assert.Len(t, session.RedoOps(), len(ops)-i-1)
		assert.True(t, raster.Equal(fold(testImage(), ops[:i+1]...), session.Current()))
	}
	assert.ErrorIs(t, session.Redo(), ErrEmptyRedo)
}

func TestRepeat(t *testing.T) {
	session, _, _ := openSession(t)
	op := mustOp[algorithms.BrightnessContrast](t)(algorithms.NewBrightnessContrast(10, 0))

	require.NoError(t, session.Apply(algorithms.InvertColour{}))
	require.NoError(t, session.Undo())
	require.NoError(t, session.Apply(op))
	require.NoError(t, session.Repeat())

	assert.Equal(t, []algorithms.Operation{op, op}, session.Ops())
	assert.Empty(t, session.RedoOps())
	assert.True(t, raster.Equal(fold(testImage(), op, op), session.Current()))
}

func TestApplyRejectsInvalidOperation(t *testing.T) {
	session, _, _ := openSession(t)

	var perr *algorithms.InvalidParameterError
	assert.ErrorAs(t, session.Apply(algorithms.GaussianFilter{}), &perr)
	assert.Error(t, session.Apply(nil))
	assert.Empty(t, session.Ops())
}

func TestCurrentIsACopy(t *testing.T) {
	session, _, _ := openSession(t)
	img := session.Current()
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})

	assert.True(t, raster.Equal(testImage(), session.Current()))
	assert.True(t, raster.Equal(testImage(), session.Original()))
}

func TestReplayMatchesFoldForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	session, _, _ := openSession(t)

	for step := 0; step < 60; step++ {
		switch rng.IntN(4) {
		case 0:
			_ = session.Undo()
		case 1:
			_ = session.Redo()
		default:
			op := algorithms.RandomOperation(rng, 6, 4)
			if !algorithms.IsDeterministic(op) || op.Kind() == algorithms.KindResize {
				continue
			}
			require.NoError(t, session.Apply(op))
		}
		require.True(t, raster.Equal(fold(testImage(), session.Ops()...), session.Current()), "step %d", step)
	}
}

func TestHistoryDebugger(t *testing.T) {
	session, _, _ := openSession(t)
	debugger := NewHistoryDebugger(nil)
	session.SetDebugger(debugger)

	require.NoError(t, session.Apply(algorithms.InvertColour{}))
	require.NoError(t, session.Undo())
	require.ErrorIs(t, session.Undo(), ErrEmptyHistory)

	ops := debugger.Operations()
	require.Len(t, ops, 3)
	assert.Equal(t, "apply", ops[0].Action)
	assert.Equal(t, "replay", ops[1].Action)
	assert.False(t, ops[2].Success)

	stats := debugger.GetStats()
	assert.Equal(t, 3, stats["total_operations"])

	var buf bytes.Buffer
	debugger.PrintStatus(&buf)
	assert.Contains(t, buf.String(), "HISTORY DEBUG STATUS")

	debugger.SetEnabled(false)
	require.NoError(t, session.Apply(algorithms.InvertColour{}))
	assert.Len(t, debugger.Operations(), 3)

	var nilDebugger *HistoryDebugger
	assert.NotPanics(t, func() { nilDebugger.LogOperation("apply", true, 0, nil, errors.New("x")) })
}
