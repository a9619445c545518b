package vizpipe

import (
	"encoding/json"
	"sort"

	"github.com/samber/lo"
)

// ChartVariant names one of the supported chart types.
type ChartVariant string

const (
	Scatter   ChartVariant = "scatter"
	Line      ChartVariant = "line"
	Bar       ChartVariant = "bar"
	Histogram ChartVariant = "histogram"
	Bubble    ChartVariant = "bubble"
	Pie       ChartVariant = "pie"
	Sunburst  ChartVariant = "sunburst"
)

// Channel is a visual role a chart maps a column onto.
type Channel string

const (
	ChannelX       Channel = "x"
	ChannelY       Channel = "y"
	ChannelSize    Channel = "size"
	ChannelColor   Channel = "color"
	ChannelNames   Channel = "names"
	ChannelParents Channel = "parents"
	ChannelValues  Channel = "values"
)

// ChannelMapping maps each channel to the column that feeds it.
type ChannelMapping map[Channel]string

// RenderMode tells the renderer which mark to draw.
type RenderMode string

const (
	RenderPoint RenderMode = "point"
	RenderLine  RenderMode = "line"
	RenderRect  RenderMode = "rect"
	RenderBin   RenderMode = "bin"
	RenderSlice RenderMode = "slice"
	RenderRing  RenderMode = "ring"
)

// variantSchema declares what a ChartVariant accepts.
type variantSchema struct {
	mode        RenderMode
	required    []Channel
	optional    []Channel
	numeric     []Channel
	nonNegative []Channel

	// check runs variant specific structural rules
	// after every channel was validated.
	check func(t Table, channels ChannelMapping) error
}

func (s variantSchema) accepts(ch Channel) bool {
	return lo.Contains(s.required, ch) || lo.Contains(s.optional, ch)
}

var variantSchemas = map[ChartVariant]variantSchema{
	Scatter: {
		mode:     RenderPoint,
		required: []Channel{ChannelX, ChannelY},
		optional: []Channel{ChannelColor},
	},
	Line: {
		mode:     RenderLine,
		required: []Channel{ChannelX, ChannelY},
		optional: []Channel{ChannelColor},
		numeric:  []Channel{ChannelY},
	},
	Bar: {
		mode:     RenderRect,
		required: []Channel{ChannelX, ChannelY},
		optional: []Channel{ChannelColor},
		numeric:  []Channel{ChannelY},
	},
	Histogram: {
		mode:     RenderBin,
		required: []Channel{ChannelX},
		optional: []Channel{ChannelColor},
		numeric:  []Channel{ChannelX},
	},
	Bubble: {
		mode:        RenderPoint,
		required:    []Channel{ChannelX, ChannelY, ChannelSize},
		optional:    []Channel{ChannelColor},
		numeric:     []Channel{ChannelSize},
		nonNegative: []Channel{ChannelSize},
	},
	Pie: {
		mode:        RenderSlice,
		required:    []Channel{ChannelValues, ChannelNames},
		optional:    []Channel{ChannelColor},
		numeric:     []Channel{ChannelValues},
		nonNegative: []Channel{ChannelValues},
	},
	Sunburst: {
		mode:        RenderRing,
		required:    []Channel{ChannelNames, ChannelParents, ChannelValues},
		optional:    []Channel{ChannelColor},
		numeric:     []Channel{ChannelValues},
		nonNegative: []Channel{ChannelValues},
		check:       checkHierarchy,
	},
}

// Variants returns every supported ChartVariant sorted by name.
func Variants() []ChartVariant {
	variants := lo.Keys(variantSchemas)
	sort.Slice(variants, func(i, j int) bool {
		return variants[i] < variants[j]
	})
	return variants
}

// ParseVariant converts a chart type name into a ChartVariant.
func ParseVariant(name string) (ChartVariant, error) {
	v := ChartVariant(name)
	if _, ok := variantSchemas[v]; !ok {
		return "", ArgumentErr("unknown chart variant", map[string]any{
			"variant":   name,
			"supported": Variants(),
		})
	}

	return v, nil
}

// RequiredChannels lists the channels a variant cannot be built without.
func (v ChartVariant) RequiredChannels() []Channel {
	return append([]Channel(nil), variantSchemas[v].required...)
}

// OptionalChannels lists the channels a variant accepts but does not need.
func (v ChartVariant) OptionalChannels() []Channel {
	return append([]Channel(nil), variantSchemas[v].optional...)
}

// RenderMode returns the mark the renderer should draw for v.
func (v ChartVariant) RenderMode() RenderMode {
	return variantSchemas[v].mode
}

// ChartSpec is the render-ready description of a chart.
// It is built by Build and never changes afterwards.
type ChartSpec struct {
	variant  ChartVariant
	mode     RenderMode
	data     Table
	channels ChannelMapping
	title    string
}

func (c ChartSpec) Variant() ChartVariant {
	return c.variant
}

func (c ChartSpec) RenderMode() RenderMode {
	return c.mode
}

func (c ChartSpec) Data() Table {
	return c.data
}

func (c ChartSpec) Title() string {
	return c.title
}

// Channels returns a copy of the channel mapping.
func (c ChartSpec) Channels() ChannelMapping {
	return copyChannels(c.channels)
}

// Column returns the column mapped to ch, if any.
func (c ChartSpec) Column(ch Channel) (string, bool) {
	col, ok := c.channels[ch]
	return col, ok
}

func (c ChartSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Variant    ChartVariant   `json:"variant"`
		RenderMode RenderMode     `json:"renderMode"`
		Title      string         `json:"title"`
		Channels   ChannelMapping `json:"channels"`
		Data       Table          `json:"data"`
	}{
		Variant:    c.variant,
		RenderMode: c.mode,
		Title:      c.title,
		Channels:   c.channels,
		Data:       c.data,
	})
}

func copyChannels(channels ChannelMapping) ChannelMapping {
	copied := make(ChannelMapping, len(channels))
	for ch, col := range channels {
		copied[ch] = col
	}
	return copied
}
