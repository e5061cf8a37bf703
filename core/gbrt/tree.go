package gbrt

import "sort"

// Node is one node of a fitted regression tree. Leaves carry a prediction
// value; internal nodes route on feature <= threshold.
type Node struct {
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Value     float64 `json:"value"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

// IsLeaf reports whether the node carries a terminal prediction.
func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// Predict routes the feature vector down to a leaf value.
func (n *Node) Predict(x []float64) float64 {
	for !n.IsLeaf() {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// treeBuilder fits a single CART regression tree by greedy variance-reduction
// splitting.
type treeBuilder struct {
	x          [][]float64
	y          []float64
	maxDepth   int
	minSamples int
	// gains accumulates squared-error reduction per feature, feeding the
	// model-level importance ranking.
	gains []float64
}

func (b *treeBuilder) build(idx []int, depth int) *Node {
	sum, sumSq := momentsOf(b.y, idx)
	n := float64(len(idx))
	node := &Node{Value: sum / n}
	if depth >= b.maxDepth || len(idx) < 2*b.minSamples {
		return node
	}

	parentSSE := sumSq - sum*sum/n
	feat, thr, gain, ok := b.bestSplit(idx, parentSSE)
	if !ok || gain <= 0 {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feat] <= thr {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < b.minSamples || len(right) < b.minSamples {
		return node
	}

	b.gains[feat] += gain
	node.Feature = feat
	node.Threshold = thr
	node.Left = b.build(left, depth+1)
	node.Right = b.build(right, depth+1)
	return node
}

// bestSplit scans every feature for the threshold that minimizes the summed
// squared error of the two children.
func (b *treeBuilder) bestSplit(idx []int, parentSSE float64) (feat int, thr, gain float64, ok bool) {
	order := make([]int, len(idx))
	bestGain := 0.0
	for f := 0; f < len(b.x[idx[0]]); f++ {
		copy(order, idx)
		sort.Slice(order, func(a, c int) bool { return b.x[order[a]][f] < b.x[order[c]][f] })

		totalSum, totalSq := momentsOf(b.y, order)
		leftSum, leftSq := 0.0, 0.0
		for i := 0; i < len(order)-1; i++ {
			yi := b.y[order[i]]
			leftSum += yi
			leftSq += yi * yi
			// Splits only between distinct feature values.
			if b.x[order[i]][f] == b.x[order[i+1]][f] {
				continue
			}
			nl := float64(i + 1)
			nr := float64(len(order) - i - 1)
			if int(nl) < b.minSamples || int(nr) < b.minSamples {
				continue
			}
			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)
			if g := parentSSE - sse; g > bestGain {
				bestGain = g
				feat = f
				thr = (b.x[order[i]][f] + b.x[order[i+1]][f]) / 2
				ok = true
			}
		}
	}
	return feat, thr, bestGain, ok
}

func momentsOf(y []float64, idx []int) (sum, sumSq float64) {
	for _, i := range idx {
		sum += y[i]
		sumSq += y[i] * y[i]
	}
	return sum, sumSq
}
