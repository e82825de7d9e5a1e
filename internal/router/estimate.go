package router

import "github.com/opentalon/taskpilot/internal/provider"

// Token estimates per task by complexity; scaled by batch size for cost.
var baseTokensByComplexity = map[Complexity]int{
	ComplexitySimple:  300,
	ComplexityMedium:  800,
	ComplexityComplex: 2000,
	ComplexityExpert:  4000,
}

func estimateTokens(c Complexity, batchSize int) int {
	base, ok := baseTokensByComplexity[c]
	if !ok {
		base = baseTokensByComplexity[ComplexityMedium]
	}
	if batchSize < 1 {
		batchSize = 1
	}
	return base * batchSize
}

func estimateCost(m provider.ModelInfo, c Complexity, batchSize int) float64 {
	return float64(estimateTokens(c, batchSize)) / 1000 * m.CostPer1K
}

func estimateLatencyMS(m provider.ModelInfo, c Complexity) float64 {
	f := 1.0
	switch c {
	case ComplexityComplex:
		f = 1.5
	case ComplexityExpert:
		f = 2.0
	}
	return float64(m.BaseLatencyMS) * f
}
