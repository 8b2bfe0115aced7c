package domain

// Chart names. Each is a chart's output file base name, its pipeline stage
// suffix and its metrics label.
const (
	ChartDailyTemperature      = "daily_temp"
	ChartMonthlyRainfall       = "monthly_rainfall"
	ChartHumidityVsTemperature = "humidity_vs_temp"
)
