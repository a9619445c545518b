package vizpipe

import (
	"sort"

	"github.com/samber/lo"
)

// Build validates that channels fit variant and t, and returns the
// resulting ChartSpec. Neither t nor channels are modified.
//
// Failures are reported in this order, each one listing every
// offending item of its kind: ArgumentErr for an unknown variant,
// ChannelErr, TypeErr, ValueErr and finally HierarchyErr.
func Build(variant ChartVariant, t Table, channels ChannelMapping, title string) (ChartSpec, error) {
	schema, ok := variantSchemas[variant]
	if !ok {
		return ChartSpec{}, ArgumentErr("unknown chart variant", map[string]any{
			"variant":   variant,
			"supported": Variants(),
		})
	}

	if err := checkChannels(variant, schema, t, channels); err != nil {
		return ChartSpec{}, err
	}

	if err := checkNumeric(variant, schema, t, channels); err != nil {
		return ChartSpec{}, err
	}

	if err := checkNonNegative(variant, schema, t, channels); err != nil {
		return ChartSpec{}, err
	}

	if schema.check != nil {
		if err := schema.check(t, channels); err != nil {
			return ChartSpec{}, err
		}
	}

	return ChartSpec{
		variant:  variant,
		mode:     schema.mode,
		data:     t,
		channels: copyChannels(channels),
		title:    title,
	}, nil
}

func checkChannels(variant ChartVariant, schema variantSchema, t Table, channels ChannelMapping) error {
	missingChannels := lo.Filter(schema.required, func(ch Channel, _ int) bool {
		_, ok := channels[ch]
		return !ok
	})

	var unsupported []Channel
	var missingColumns []string
	for _, ch := range sortedChannels(channels) {
		if !schema.accepts(ch) {
			unsupported = append(unsupported, ch)
			continue
		}

		if col := channels[ch]; !t.HasColumn(col) {
			missingColumns = append(missingColumns, col)
		}
	}

	if len(missingChannels) == 0 && len(unsupported) == 0 && len(missingColumns) == 0 {
		return nil
	}

	data := map[string]any{
		"variant": variant,
	}
	if len(missingChannels) > 0 {
		data["missingChannels"] = missingChannels
	}
	if len(unsupported) > 0 {
		data["unsupportedChannels"] = unsupported
	}
	if len(missingColumns) > 0 {
		data["missingColumns"] = lo.Uniq(missingColumns)
	}

	return ChannelErr("invalid channel mapping", data)
}

func checkNumeric(variant ChartVariant, schema variantSchema, t Table, channels ChannelMapping) error {
	var invalid []Channel
	for _, ch := range schema.numeric {
		if !t.IsNumeric(channels[ch]) {
			invalid = append(invalid, ch)
		}
	}

	if len(invalid) == 0 {
		return nil
	}

	return TypeErr("channels require numeric columns", map[string]any{
		"variant":  variant,
		"channels": invalid,
		"columns": lo.Map(invalid, func(ch Channel, _ int) string {
			return channels[ch]
		}),
	})
}

func checkNonNegative(variant ChartVariant, schema variantSchema, t Table, channels ChannelMapping) error {
	negatives := map[string][]int{}
	for _, ch := range schema.nonNegative {
		col := channels[ch]
		for i, v := range t.Column(col) {
			if f, ok := v.Float(); ok && f < 0 {
				negatives[col] = append(negatives[col], i)
			}
		}
	}

	if len(negatives) == 0 {
		return nil
	}

	return ValueErr("negative values in a magnitude channel", map[string]any{
		"variant":      variant,
		"negativeRows": negatives,
	})
}

// checkHierarchy makes sure every non root row of a sunburst
// points to an existing node and that no parent chain loops.
//
// Root rows are the ones whose parent is missing or empty.
func checkHierarchy(t Table, channels ChannelMapping) error {
	names := t.Column(channels[ChannelNames])
	parents := t.Column(channels[ChannelParents])

	nodes := make(map[string]int, len(names))
	var unnamed []int
	var duplicated []string
	for i, name := range names {
		if name.IsMissing() {
			unnamed = append(unnamed, i)
			continue
		}

		if _, exists := nodes[name.key()]; exists {
			duplicated = append(duplicated, name.String())
			continue
		}
		nodes[name.key()] = i
	}

	if len(unnamed) > 0 || len(duplicated) > 0 {
		data := map[string]any{}
		if len(unnamed) > 0 {
			data["unnamedRows"] = unnamed
		}
		if len(duplicated) > 0 {
			data["duplicatedNames"] = lo.Uniq(duplicated)
		}
		return HierarchyErr("sunburst node names must be present and unique", data)
	}

	// parentOf holds the row index of each row's parent, -1 for roots.
	parentOf := make([]int, len(names))
	dangling := map[string]string{}
	for i, parent := range parents {
		if isRoot(parent) {
			parentOf[i] = -1
			continue
		}

		p, ok := nodes[parent.key()]
		if !ok {
			dangling[names[i].String()] = parent.String()
			continue
		}
		parentOf[i] = p
	}

	if len(dangling) > 0 {
		return HierarchyErr("dangling parent reference", map[string]any{
			"danglingParents": dangling,
		})
	}

	// reachesRoot caches the rows already proven to end on a root.
	reachesRoot := make([]bool, len(names))
	var cyclic []string
	for i := range names {
		seen := map[int]bool{}
		chain := []int{}
		node := i
		for node != -1 && !reachesRoot[node] {
			if seen[node] || len(chain) > len(names) {
				cyclic = append(cyclic, names[i].String())
				break
			}
			seen[node] = true
			chain = append(chain, node)
			node = parentOf[node]
		}

		if node == -1 || reachesRoot[node] {
			for _, n := range chain {
				reachesRoot[n] = true
			}
		}
	}

	if len(cyclic) > 0 {
		sort.Strings(cyclic)
		return HierarchyErr("cyclic parent reference", map[string]any{
			"cyclicNodes": cyclic,
		})
	}

	return nil
}

func isRoot(parent Value) bool {
	if parent.IsMissing() {
		return true
	}

	s, ok := parent.Text()
	return ok && s == ""
}

func sortedChannels(channels ChannelMapping) []Channel {
	keys := lo.Keys(channels)
	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})
	return keys
}
