package pyramid

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat/distuv"
)

// gaussianKernel builds a normalized, separable 1-D Gaussian kernel
// for blurring with standard deviation sigma, truncated at the
// standard ±3σ radius (the rule OpenCV's GaussianBlur uses when asked
// to auto-size a kernel via ksize=(0,0)).
//
// Weights come from gonum's distuv.Normal rather than a hand-rolled
// exp() table, so the kernel math is grounded on a real numerical
// library.
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	if radius < 1 {
		radius = 1
	}

	dist := distuv.Normal{Mu: 0, Sigma: sigma}
	weights := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := dist.Prob(float64(i))
		weights[i+radius] = w
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

var (
	kernelCacheMu sync.Mutex
	kernelCache   = map[float64][]float64{}
)

// cachedGaussianKernel memoizes kernels per distinct sigma (at most 3,
// since inv_scale_factors is fixed); guarded by a mutex because
// Build may run concurrently across frames when Params.Parallelism > 1.
func cachedGaussianKernel(sigma float64) []float64 {
	kernelCacheMu.Lock()
	defer kernelCacheMu.Unlock()
	if k, ok := kernelCache[sigma]; ok {
		return k
	}
	k := gaussianKernel(sigma)
	kernelCache[sigma] = k
	return k
}
