package dataset

import "sort"

// GroupedSample maps group labels to one metric's observations in that group.
// Tests over it are order-independent; helpers iterate labels in sorted order.
type GroupedSample struct {
	Metric string               `json:"metric"`
	Groups map[string][]float64 `json:"groups"`
}

// NewGroupedSample creates a grouped sample, copying the input slices
func NewGroupedSample(metric string, groups map[string][]float64) GroupedSample {
	copied := make(map[string][]float64, len(groups))
	for label, values := range groups {
		copied[label] = append([]float64(nil), values...)
	}
	return GroupedSample{Metric: metric, Groups: copied}
}

// Labels returns the group labels sorted
func (g GroupedSample) Labels() []string {
	labels := make([]string, 0, len(g.Groups))
	for label := range g.Groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Sizes returns each group's observation count
func (g GroupedSample) Sizes() map[string]int {
	sizes := make(map[string]int, len(g.Groups))
	for label, values := range g.Groups {
		sizes[label] = len(values)
	}
	return sizes
}

// MinGroupSize returns the smallest group size, or 0 when there are no groups
func (g GroupedSample) MinGroupSize() int {
	if len(g.Groups) == 0 {
		return 0
	}
	min := -1
	for _, values := range g.Groups {
		if min < 0 || len(values) < min {
			min = len(values)
		}
	}
	return min
}

// Len returns the total number of observations
func (g GroupedSample) Len() int {
	n := 0
	for _, values := range g.Groups {
		n += len(values)
	}
	return n
}

// Pooled concatenates all groups in label order
func (g GroupedSample) Pooled() []float64 {
	pooled := make([]float64, 0, g.Len())
	for _, label := range g.Labels() {
		pooled = append(pooled, g.Groups[label]...)
	}
	return pooled
}

// Ordered returns the groups as parallel slices in label order
func (g GroupedSample) Ordered() ([]string, [][]float64) {
	labels := g.Labels()
	groups := make([][]float64, len(labels))
	for i, label := range labels {
		groups[i] = g.Groups[label]
	}
	return labels, groups
}
