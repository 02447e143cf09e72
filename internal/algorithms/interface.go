// Closed set of image operations with an opcode registry
package algorithms

import (
	"fmt"
	"image"
	"sort"

	"gopkg.in/yaml.v3"
)

// Operation is an immutable, parameterised transform from one raster to
// another. The set of implementations is closed: only the types in this
// package satisfy it.
//
// Apply never mutates its input and never fails for a well-formed
// raster; it always returns a raster the caller owns.
type Operation interface {
	Kind() Kind
	Apply(src *image.NRGBA) *image.NRGBA
	validate() error
}

// Kind is the opcode of an operation.
type Kind uint8

const (
	KindBrightnessContrast Kind = iota + 1
	KindInvert
	KindChannelCycle
	KindMean
	KindGaussian
	KindSharpen
	KindSoftBlur
	KindSobel
	KindEmboss
	KindMedian
	KindBlockAverage
	KindFlipHorizontal
	KindFlipVertical
	KindRotateLeft
	KindRotateRight
	KindRotate180
	KindResize
	KindCrop
	KindOvalCrop
	KindDraw
	KindRandomNoise
	KindRandomScatter
)

// Categories
const (
	CategoryColour    = "Colour"
	CategoryFilter    = "Filter"
	CategoryTransform = "Transform"
	CategorySelection = "Selection"
	CategoryNoise     = "Noise"
)

// ParameterInfo describes an operation parameter for help output.
type ParameterInfo struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"` // "int", "bool", "point", "colour", "enum"
	Min         any      `yaml:"min,omitempty"`
	Max         any      `yaml:"max,omitempty"`
	Default     any      `yaml:"default,omitempty"`
	Description string   `yaml:"description"`
	Options     []string `yaml:"options,omitempty"` // For enum type
}

// ParamDecoder fills its argument from the serialized parameters of an
// operation record.
type ParamDecoder func(into any) error

// Info describes a registered operation kind.
type Info struct {
	Kind        Kind
	Name        string
	Category    string
	Description string
	// Deterministic is false for operations whose output depends on a
	// random source. Replaying them does not reproduce identical pixels.
	Deterministic bool
	Params        []ParameterInfo

	decode func(ParamDecoder) (Operation, error)
}

// Decode builds an operation of this kind from serialized parameters and
// validates it. Parameters the decoder leaves out keep their advertised
// defaults; a nil decoder yields the all-default operation.
func (i Info) Decode(params ParamDecoder) (Operation, error) {
	op, err := i.decode(params)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", i.Name, err)
	}
	if err := op.validate(); err != nil {
		return nil, err
	}
	return op, nil
}

var (
	registry = make(map[Kind]Info)
	byName   = make(map[string]Kind)
)

// register adds an operation type to the registry. T must be the value
// type returned by that kind's Kind method.
func register[T Operation](kind Kind, name, category, description string, deterministic bool, params ...ParameterInfo) {
	info := Info{
		Kind:          kind,
		Name:          name,
		Category:      category,
		Description:   description,
		Deterministic: deterministic,
		Params:        params,
		decode: func(decode ParamDecoder) (Operation, error) {
			var op T
			if err := applyDefaults(params, &op); err != nil {
				return nil, err
			}
			if decode != nil {
				if err := decode(&op); err != nil {
					return nil, err
				}
			}
			return op, nil
		},
	}
	registry[kind] = info
	byName[name] = kind
}

// applyDefaults decodes every parameter Default into op. Colour and point
// defaults are written as YAML flow mappings.
func applyDefaults(params []ParameterInfo, op any) error {
	defaults := yaml.Node{Kind: yaml.MappingNode}
	for _, p := range params {
		if p.Default == nil {
			continue
		}
		var value yaml.Node
		if s, ok := p.Default.(string); ok && (p.Type == "colour" || p.Type == "point") {
			var doc yaml.Node
			if err := yaml.Unmarshal([]byte(s), &doc); err != nil || len(doc.Content) == 0 {
				return fmt.Errorf("default for %s: %q is not a mapping", p.Name, s)
			}
			value = *doc.Content[0]
		} else if err := value.Encode(p.Default); err != nil {
			return fmt.Errorf("default for %s: %w", p.Name, err)
		}
		defaults.Content = append(defaults.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.Name}, &value)
	}
	if len(defaults.Content) == 0 {
		return nil
	}
	return defaults.Decode(op)
}

// Lookup returns the registry entry for kind.
func Lookup(kind Kind) (Info, bool) {
	info, ok := registry[kind]
	return info, ok
}

// KindByName resolves a serialized opcode name.
func KindByName(name string) (Kind, bool) {
	kind, ok := byName[name]
	return kind, ok
}

// IsValidName reports whether name is a registered opcode.
func IsValidName(name string) bool {
	_, ok := byName[name]
	return ok
}

// String returns the opcode name of k.
func (k Kind) String() string {
	if info, ok := registry[k]; ok {
		return info.Name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds returns every registered kind in opcode order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Categories lists the operation categories in menu order.
func Categories() []string {
	return []string{CategoryColour, CategoryFilter, CategoryTransform, CategorySelection, CategoryNoise}
}

// ByCategory groups the registered opcode names by category.
func ByCategory() map[string][]string {
	result := make(map[string][]string)
	for _, k := range Kinds() {
		info := registry[k]
		result[info.Category] = append(result[info.Category], info.Name)
	}
	return result
}

// IsDeterministic reports whether replaying op reproduces identical pixels.
func IsDeterministic(op Operation) bool {
	info, ok := registry[op.Kind()]
	return ok && info.Deterministic
}

// Validate checks the parameters of op. Constructors already validate;
// this is for operations decoded from files.
func Validate(op Operation) error {
	if op == nil {
		return &InvalidParameterError{Op: "nil", Param: "operation", Reason: "missing"}
	}
	return op.validate()
}

// Name returns the opcode name of op.
func Name(op Operation) string {
	return op.Kind().String()
}

func radiusParam(def int) ParameterInfo {
	return ParameterInfo{Name: "radius", Type: "int", Min: 1, Max: MaxRadius, Default: def, Description: "Half-width of the window"}
}

func selectionParams() []ParameterInfo {
	return []ParameterInfo{
		{Name: "start", Type: "point", Description: "First corner of the selection"},
		{Name: "end", Type: "point", Description: "Opposite corner of the selection"},
	}
}

func init() {
	register[BrightnessContrast](KindBrightnessContrast, "brightness_contrast", CategoryColour, "Adjust brightness and contrast by percentage", true,
		ParameterInfo{Name: "brightness", Type: "int", Min: -100, Max: 100, Default: 0, Description: "Brightness change in percent"},
		ParameterInfo{Name: "contrast", Type: "int", Min: -100, Max: 100, Default: 0, Description: "Contrast change in percent"})
	register[InvertColour](KindInvert, "invert", CategoryColour, "Invert the colour channels", true)
	register[ChannelCycle](KindChannelCycle, "channel_cycle", CategoryColour, "Permute the red, green and blue channels", true,
		ParameterInfo{Name: "permutation", Type: "int", Min: 1, Max: 5, Default: 1, Description: "1=BRG 2=GBR 3=GRB 4=RBG 5=BGR"})

	register[MeanFilter](KindMean, "mean", CategoryFilter, "Uniform blur over a square window", true, radiusParam(1))
	register[GaussianFilter](KindGaussian, "gaussian", CategoryFilter, "Gaussian blur with sigma radius/3", true, radiusParam(3))
	register[SharpenFilter](KindSharpen, "sharpen", CategoryFilter, "3x3 sharpening kernel", true)
	register[SoftBlur](KindSoftBlur, "soft_blur", CategoryFilter, "3x3 soft blur kernel", true)
	register[SobelFilter](KindSobel, "sobel", CategoryFilter, "Sobel edge detection", true,
		ParameterInfo{Name: "direction", Type: "enum", Default: string(SobelHorizontal), Description: "Gradient direction",
			Options: []string{string(SobelHorizontal), string(SobelVertical)}})
	register[EmbossFilter](KindEmboss, "emboss", CategoryFilter, "Directional emboss", true,
		ParameterInfo{Name: "direction", Type: "enum", Default: "n", Description: "Light direction",
			Options: []string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}})
	register[MedianFilter](KindMedian, "median", CategoryFilter, "Per-channel median over a square window", true, radiusParam(1))
	register[BlockAverage](KindBlockAverage, "block_average", CategoryFilter, "Pixelate by averaging fixed blocks", true,
		ParameterInfo{Name: "width", Type: "int", Min: 1, Default: 8, Description: "Block width in pixels"},
		ParameterInfo{Name: "height", Type: "int", Min: 1, Default: 8, Description: "Block height in pixels"})

	register[FlipHorizontal](KindFlipHorizontal, "flip_horizontal", CategoryTransform, "Mirror left to right", true)
	register[FlipVertical](KindFlipVertical, "flip_vertical", CategoryTransform, "Mirror top to bottom", true)
	register[RotateLeft](KindRotateLeft, "rotate_left", CategoryTransform, "Rotate 90 degrees anticlockwise", true)
	register[RotateRight](KindRotateRight, "rotate_right", CategoryTransform, "Rotate 90 degrees clockwise", true)
	register[Rotate180](KindRotate180, "rotate_180", CategoryTransform, "Rotate 180 degrees", true)
	register[Resize](KindResize, "resize", CategoryTransform, "Scale by a percentage", true,
		ParameterInfo{Name: "percent", Type: "int", Min: MinResizePercent, Max: MaxResizePercent, Default: 100, Description: "Scale factor in percent"})

	register[Crop](KindCrop, "crop", CategorySelection, "Crop to the selected rectangle", true, selectionParams()...)
	register[OvalCrop](KindOvalCrop, "oval_crop", CategorySelection, "Crop to the oval inscribed in the selection", true, selectionParams()...)
	register[Draw](KindDraw, "draw", CategorySelection, "Draw a line, rectangle or oval", true, append(selectionParams(),
		ParameterInfo{Name: "shape", Type: "enum", Default: string(ShapeLine), Description: "Shape to draw",
			Options: []string{string(ShapeLine), string(ShapeRectangle), string(ShapeOval)}},
		ParameterInfo{Name: "colour", Type: "colour", Default: "{r: 0, g: 0, b: 0, a: 255}", Description: "Stroke or fill colour"},
		ParameterInfo{Name: "fill", Type: "bool", Default: false, Description: "Fill the shape instead of stroking it"},
		ParameterInfo{Name: "width", Type: "int", Min: 1, Default: 1, Description: "Stroke width in pixels"})...)

	register[RandomNoise](KindRandomNoise, "random_noise", CategoryNoise, "Replace every pixel with random RGBA", false)
	register[RandomScatter](KindRandomScatter, "random_scatter", CategoryNoise, "Move each pixel to a random nearby position", false, radiusParam(3))
}
