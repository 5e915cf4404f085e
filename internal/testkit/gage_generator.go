package testkit

import (
	"fmt"
	"math/rand"

	"gospc/domain/dataset"
)

// GageConfig sets the true standard deviations of a synthetic Gage study
type GageConfig struct {
	Operators     int
	Parts         int
	Repeats       int
	OperatorSD    float64
	PartSD        float64
	InteractionSD float64
	RepeatSD      float64
	Mean          float64
	Seed          int64
}

// DefaultGageConfig is a 3 operator by 10 part study with 3 repeats, dominated by part variation
func DefaultGageConfig() GageConfig {
	return GageConfig{
		Operators:     3,
		Parts:         10,
		Repeats:       3,
		OperatorSD:    0.2,
		PartSD:        2.0,
		InteractionSD: 0.1,
		RepeatSD:      0.3,
		Mean:          10,
		Seed:          7,
	}
}

// GenerateCube draws a measurement cube from the additive random-effects model
func GenerateCube(cfg GageConfig) dataset.MeasurementCube {
	rng := rand.New(rand.NewSource(cfg.Seed))

	opEffect := make([]float64, cfg.Operators)
	for o := range opEffect {
		opEffect[o] = rng.NormFloat64() * cfg.OperatorSD
	}
	partEffect := make([]float64, cfg.Parts)
	for p := range partEffect {
		partEffect[p] = rng.NormFloat64() * cfg.PartSD
	}

	cube := make(dataset.MeasurementCube, cfg.Operators)
	for o := range cube {
		cube[o] = make([][]float64, cfg.Parts)
		for p := range cube[o] {
			cell := cfg.Mean + opEffect[o] + partEffect[p] + rng.NormFloat64()*cfg.InteractionSD
			cube[o][p] = make([]float64, cfg.Repeats)
			for r := range cube[o][p] {
				cube[o][p][r] = cell + rng.NormFloat64()*cfg.RepeatSD
			}
		}
	}
	return cube
}

// CubeRecords flattens a cube into long-format records with O1.., P1.. labels
func CubeRecords(cube dataset.MeasurementCube) []dataset.CubeRecord {
	var records []dataset.CubeRecord
	for o := range cube {
		for p := range cube[o] {
			for _, v := range cube[o][p] {
				records = append(records, dataset.CubeRecord{
					Operator: fmt.Sprintf("O%02d", o+1),
					Part:     fmt.Sprintf("P%02d", p+1),
					Value:    v,
				})
			}
		}
	}
	return records
}

// ConstantCube returns a cube whose every measurement equals value
func ConstantCube(operators, parts, repeats int, value float64) dataset.MeasurementCube {
	cube := make(dataset.MeasurementCube, operators)
	for o := range cube {
		cube[o] = make([][]float64, parts)
		for p := range cube[o] {
			cube[o][p] = make([]float64, repeats)
			for r := range cube[o][p] {
				cube[o][p][r] = value
			}
		}
	}
	return cube
}
