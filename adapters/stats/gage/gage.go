// Package gage decomposes a Gage R&R measurement cube into operator, part,
// operator-by-part and repeatability variance.
package gage

import (
	"math"

	"gospc/domain/dataset"
	"gospc/domain/quality"
)

// Sources is the fixed display order of the components
var Sources = quality.GageSources

// Decompose runs the nested operator x part decomposition with repeats as
// replicates. All variances are population variances. It fails only on an
// empty, ragged or non-finite cube.
func Decompose(cube dataset.MeasurementCube) (quality.GageComponents, error) {
	if err := cube.Validate(); err != nil {
		return quality.GageComponents{}, err
	}
	operators, parts, repeats := cube.Shape()

	cells := make([][]float64, operators)
	opAcc := make([]welford, operators)
	partAcc := make([]welford, parts)
	var grand welford
	var repeatability welford

	for o := 0; o < operators; o++ {
		cells[o] = make([]float64, parts)
		for p := 0; p < parts; p++ {
			var cell welford
			for _, x := range cube[o][p] {
				cell.update(x)
				opAcc[o].update(x)
				partAcc[p].update(x)
				grand.update(x)
			}
			cells[o][p] = cell.mean
		}
	}

	// Residuals around the cell means, pooled over every cell
	for o := 0; o < operators; o++ {
		for p := 0; p < parts; p++ {
			for _, x := range cube[o][p] {
				repeatability.update(x - cells[o][p])
			}
		}
	}

	opMeans := make([]float64, operators)
	for o := range opAcc {
		opMeans[o] = opAcc[o].mean
	}
	partMeans := make([]float64, parts)
	for p := range partAcc {
		partMeans[p] = partAcc[p].mean
	}

	var interaction welford
	for o := 0; o < operators; o++ {
		for p := 0; p < parts; p++ {
			interaction.update(cells[o][p] - opMeans[o] - partMeans[p] + grand.mean)
		}
	}

	g := quality.GageComponents{Operators: operators, Parts: parts, Repeats: repeats}
	g.Variances[quality.SourceOperator] = popVariance(opMeans)
	g.Variances[quality.SourcePart] = popVariance(partMeans)
	g.Variances[quality.SourceInteraction] = interaction.popVariance()
	g.Variances[quality.SourceRepeatability] = repeatability.popVariance()

	for i, v := range g.Variances {
		if math.IsNaN(v) {
			v = 0
			g.Variances[i] = 0
		}
		g.StdDevs[i] = math.Sqrt(math.Max(v, 0))
	}
	return g, nil
}
