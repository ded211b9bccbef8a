package analytics

// Exact Shapley attributions for the boosted ensemble. The value of a
// feature subset is the tree's conditional expectation: known features
// follow the split, unknown ones average the children weighted by training
// coverage. With the small fixed feature set the 2^M subsets are cheap to
// enumerate, and attributions are exact: for any row,
// baseline + sum(phi) == predictMargin(row).

// shapValues returns per-feature attributions for one row plus the
// ensemble baseline (the expected margin over the training distribution).
func (m *gbmModel) shapValues(row []float64, nFeatures int) ([]float64, float64) {
	weights := shapleyWeights(nFeatures)
	phi := make([]float64, nFeatures)
	baseline := m.base

	nMasks := 1 << nFeatures
	v := make([]float64, nMasks)

	for _, tree := range m.trees {
		for mask := 0; mask < nMasks; mask++ {
			v[mask] = expectedTreeValue(tree, row, mask)
		}
		baseline += v[0]

		for j := 0; j < nFeatures; j++ {
			bit := 1 << j
			for mask := 0; mask < nMasks; mask++ {
				if mask&bit != 0 {
					continue
				}
				phi[j] += weights[popcount(mask)] * (v[mask|bit] - v[mask])
			}
		}
	}

	return phi, baseline
}

// expectedTreeValue walks the tree with features outside mask marginalized
// by coverage.
func expectedTreeValue(node *treeNode, row []float64, mask int) float64 {
	if node.leaf {
		return node.value
	}
	if mask&(1<<node.feature) != 0 {
		if row[node.feature] < node.threshold {
			return expectedTreeValue(node.left, row, mask)
		}
		return expectedTreeValue(node.right, row, mask)
	}

	total := float64(node.left.samples + node.right.samples)
	if total == 0 {
		return 0
	}
	return (float64(node.left.samples)*expectedTreeValue(node.left, row, mask) +
		float64(node.right.samples)*expectedTreeValue(node.right, row, mask)) / total
}

// shapleyWeights precomputes |S|!(M-|S|-1)!/M! indexed by subset size.
func shapleyWeights(m int) []float64 {
	fact := make([]float64, m+1)
	fact[0] = 1
	for i := 1; i <= m; i++ {
		fact[i] = fact[i-1] * float64(i)
	}
	w := make([]float64, m)
	for s := 0; s < m; s++ {
		w[s] = fact[s] * fact[m-s-1] / fact[m]
	}
	return w
}

func popcount(x int) int {
	n := 0
	for x != 0 {
		x &= x - 1
		n++
	}
	return n
}
