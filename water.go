package heatnet

// Properties of water at 0..100 °C
var (
	waterTemperatures = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	// kg/l
	waterDensity = []float64{0.99984, 0.9997, 0.99821, 0.99565, 0.99222, 0.98803, 0.9832, 0.97778, 0.97182, 0.96535, 0.9584}
	// kJ/(kg*K)
	waterSpecificHeat = []float64{4.2176, 4.1921, 4.1818, 4.1784, 4.1785, 4.1806, 4.1843, 4.1895, 4.1963, 4.205, 4.2159}
)

// interpolate is piecewise linear interpolation. Values outside of xs are clamped to the edge values
func interpolate(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	last := len(xs) - 1
	if x >= xs[last] {
		return ys[last]
	}
	for i := 1; i <= last; i++ {
		if x <= xs[i] {
			fraction := (x - xs[i-1]) / (xs[i] - xs[i-1])
			return ys[i-1] + fraction*(ys[i]-ys[i-1])
		}
	}
	return ys[last]
}

func waterDensityAt(temperature float64) float64 {
	return interpolate(waterTemperatures, waterDensity, temperature)
}

func waterSpecificHeatAt(temperature float64) float64 {
	return interpolate(waterTemperatures, waterSpecificHeat, temperature)
}
