package world

type Weather string

const (
	WeatherClear  Weather = "CLEAR"
	WeatherCloudy Weather = "CLOUDY"
	WeatherRain   Weather = "RAIN"
	WeatherStorm  Weather = "STORM"
	WeatherSnow   Weather = "SNOW"
)

// AllWeather is the uniform pick pool for transitions.
var AllWeather = []Weather{WeatherClear, WeatherCloudy, WeatherRain, WeatherStorm, WeatherSnow}

// IncrementTime advances the clock by one tick's worth of day and rolls the
// weather transition. The transition is a memoryless uniform re-pick: it
// does not condition on the current weather, and the pick may land on the
// same state.
func (w *World) IncrementTime() {
	w.clock += 1.0 / float64(w.cfg.DayTicks)
	for w.clock >= 1.0 {
		w.clock -= 1.0
	}
	if w.cfg.WeatherChangeChance > 0 && w.rng.Float64() < w.cfg.WeatherChangeChance {
		w.weather = AllWeather[w.rng.Intn(len(AllWeather))]
	}
}

// TimeOfDay is in [0,1): 0 dawn, 0.5 dusk.
func (w *World) TimeOfDay() float64 { return w.clock }

func (w *World) Weather() Weather { return w.weather }
