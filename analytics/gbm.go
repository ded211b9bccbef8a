package analytics

import (
	"math"
	"sort"
)

// Gradient-boosted regression trees on logistic loss. Small fixed-depth
// trees trained round by round on gradient/hessian statistics, XGBoost-style
// gain splitting with L2 regularization on leaf weights.

type gbmConfig struct {
	rounds       int
	learningRate float64
	maxDepth     int
	minLeaf      int
	lambda       float64
}

func defaultGBMConfig() gbmConfig {
	return gbmConfig{
		rounds:       50,
		learningRate: 0.1,
		maxDepth:     3,
		minLeaf:      5,
		lambda:       1.0,
	}
}

type treeNode struct {
	// Internal nodes split on feature < threshold going left.
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode

	// Leaves carry the boosted weight.
	leaf  bool
	value float64

	// samples is the training coverage of this node, used for
	// conditional expectations during attribution.
	samples int
}

type gbmModel struct {
	base  float64 // prior log-odds
	trees []*treeNode
	gain  []float64 // accumulated split gain per feature
}

// trainGBM fits the ensemble on X (row-major) against binary labels.
func trainGBM(x [][]float64, y []float64, nFeatures int, cfg gbmConfig) *gbmModel {
	n := len(x)

	pos := 0.0
	for _, v := range y {
		pos += v
	}
	prior := pos / float64(n)
	// Clamp so the initial log-odds stays finite on one-sided data.
	prior = math.Min(math.Max(prior, 1e-6), 1-1e-6)

	model := &gbmModel{
		base: math.Log(prior / (1 - prior)),
		gain: make([]float64, nFeatures),
	}

	margin := make([]float64, n)
	for i := range margin {
		margin[i] = model.base
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	idx := make([]int, n)

	for round := 0; round < cfg.rounds; round++ {
		for i := 0; i < n; i++ {
			p := sigmoid(margin[i])
			grad[i] = y[i] - p
			hess[i] = p * (1 - p)
			idx[i] = i
		}

		tree := buildTree(x, grad, hess, idx, nFeatures, 0, cfg, model.gain)
		model.trees = append(model.trees, tree)

		for i := 0; i < n; i++ {
			margin[i] += predictTree(tree, x[i])
		}
	}

	return model
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// buildTree grows one regression tree greedily on the current
// gradient/hessian statistics.
func buildTree(x [][]float64, grad, hess []float64, idx []int, nFeatures, depth int, cfg gbmConfig, gainAcc []float64) *treeNode {
	var g, h float64
	for _, i := range idx {
		g += grad[i]
		h += hess[i]
	}

	node := &treeNode{samples: len(idx)}

	if depth >= cfg.maxDepth || len(idx) < 2*cfg.minLeaf {
		node.leaf = true
		node.value = cfg.learningRate * g / (h + cfg.lambda)
		return node
	}

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0
	parentScore := g * g / (h + cfg.lambda)

	for f := 0; f < nFeatures; f++ {
		sorted := make([]int, len(idx))
		copy(sorted, idx)
		sort.Slice(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		var gl, hl float64
		for pos := 0; pos < len(sorted)-1; pos++ {
			i := sorted[pos]
			gl += grad[i]
			hl += hess[i]

			// No split between identical values.
			if x[sorted[pos]][f] == x[sorted[pos+1]][f] {
				continue
			}
			if pos+1 < cfg.minLeaf || len(sorted)-pos-1 < cfg.minLeaf {
				continue
			}

			gr := g - gl
			hr := h - hl
			gain := gl*gl/(hl+cfg.lambda) + gr*gr/(hr+cfg.lambda) - parentScore
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (x[sorted[pos]][f] + x[sorted[pos+1]][f]) / 2
			}
		}
	}

	if bestFeature < 0 {
		node.leaf = true
		node.value = cfg.learningRate * g / (h + cfg.lambda)
		return node
	}

	gainAcc[bestFeature] += bestGain

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if x[i][bestFeature] < bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	node.feature = bestFeature
	node.threshold = bestThreshold
	node.left = buildTree(x, grad, hess, leftIdx, nFeatures, depth+1, cfg, gainAcc)
	node.right = buildTree(x, grad, hess, rightIdx, nFeatures, depth+1, cfg, gainAcc)
	return node
}

func predictTree(node *treeNode, row []float64) float64 {
	for !node.leaf {
		if row[node.feature] < node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// predictMargin returns the raw model output in log-odds.
func (m *gbmModel) predictMargin(row []float64) float64 {
	out := m.base
	for _, t := range m.trees {
		out += predictTree(t, row)
	}
	return out
}

func (m *gbmModel) predictProba(row []float64) float64 {
	return sigmoid(m.predictMargin(row))
}
