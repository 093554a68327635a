// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topics

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const (
	kmeansRestarts = 10
	kmeansMaxIter  = 100
)

// kMeansLabels clusters the rows of data into k groups with Lloyd's
// algorithm, restarting kmeansRestarts times from k-means++ seedings and
// keeping the labeling with the lowest inertia.
func kMeansLabels(data *mat.Dense, k int, rng *rand.Rand) []int {
	n, _ := data.Dims()
	bestInertia := math.Inf(1)
	var bestLabels []int
	for restart := 0; restart < kmeansRestarts; restart++ {
		labels, inertia := runKMeans(data, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}
	if bestLabels == nil {
		bestLabels = make([]int, n)
	}
	return bestLabels
}

func runKMeans(data *mat.Dense, k int, rng *rand.Rand) ([]int, float64) {
	n, dim := data.Dims()
	centroids := seedCentroids(data, k, rng)
	labels := make([]int, n)

	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i := 0; i < n; i++ {
			best, bestDist := 0, math.Inf(1)
			for c := range centroids {
				if d := sqDist(data.RawRowView(i), centroids[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i := 0; i < n; i++ {
			counts[labels[i]]++
			row := data.RawRowView(i)
			for j, v := range row {
				sums[labels[i]][j] += v
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				// Empty cluster: reseed on the point farthest from its centroid.
				centroids[c] = farthestPoint(data, centroids, labels)
				continue
			}
			for j := range sums[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}

	inertia := 0.0
	for i := 0; i < n; i++ {
		inertia += sqDist(data.RawRowView(i), centroids[labels[i]])
	}
	return labels, inertia
}

// seedCentroids picks k initial centroids with k-means++ weighting: the
// first uniformly at random, each subsequent one proportional to squared
// distance from the nearest chosen centroid.
func seedCentroids(data *mat.Dense, k int, rng *rand.Rand) [][]float64 {
	n, dim := data.Dims()
	centroids := make([][]float64, 0, k)
	first := make([]float64, dim)
	copy(first, data.RawRowView(rng.Intn(n)))
	centroids = append(centroids, first)

	dists := make([]float64, n)
	for len(centroids) < k {
		total := 0.0
		for i := 0; i < n; i++ {
			d := math.Inf(1)
			for _, c := range centroids {
				if sd := sqDist(data.RawRowView(i), c); sd < d {
					d = sd
				}
			}
			dists[i] = d
			total += d
		}
		pick := 0
		if total > 0 {
			target := rng.Float64() * total
			acc := 0.0
			for i, d := range dists {
				acc += d
				if acc >= target {
					pick = i
					break
				}
			}
		} else {
			pick = rng.Intn(n)
		}
		next := make([]float64, dim)
		copy(next, data.RawRowView(pick))
		centroids = append(centroids, next)
	}
	return centroids
}

func farthestPoint(data *mat.Dense, centroids [][]float64, labels []int) []float64 {
	n, dim := data.Dims()
	best, bestDist := 0, -1.0
	for i := 0; i < n; i++ {
		if d := sqDist(data.RawRowView(i), centroids[labels[i]]); d > bestDist {
			best, bestDist = i, d
		}
	}
	out := make([]float64, dim)
	copy(out, data.RawRowView(best))
	return out
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// silhouetteScore computes the mean silhouette coefficient of a labeling.
// Points in singleton clusters contribute zero.
func silhouetteScore(data *mat.Dense, labels []int) float64 {
	n, _ := data.Dims()
	if n == 0 {
		return 0
	}
	clusters := make(map[int][]int)
	for i, c := range labels {
		clusters[c] = append(clusters[c], i)
	}

	total := 0.0
	for i := 0; i < n; i++ {
		own := clusters[labels[i]]
		if len(own) < 2 {
			continue
		}
		a := 0.0
		for _, j := range own {
			if j != i {
				a += dist(data.RawRowView(i), data.RawRowView(j))
			}
		}
		a /= float64(len(own) - 1)

		b := math.Inf(1)
		for c, members := range clusters {
			if c == labels[i] {
				continue
			}
			sum := 0.0
			for _, j := range members {
				sum += dist(data.RawRowView(i), data.RawRowView(j))
			}
			if avg := sum / float64(len(members)); avg < b {
				b = avg
			}
		}
		if max := math.Max(a, b); max > 0 {
			total += (b - a) / max
		}
	}
	return total / float64(n)
}

func dist(a, b []float64) float64 {
	return math.Sqrt(sqDist(a, b))
}

// selectK returns the candidate with the highest score, preferring the
// smaller k on ties. With no candidates it falls back to two topics.
func selectK(candidates []int, scores []float64) int {
	if len(candidates) == 0 {
		return 2
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return candidates[best]
}
