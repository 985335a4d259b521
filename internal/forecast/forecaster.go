package forecast

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/cccstore/shift-scheduler/internal/domain"
)

// Forecaster turns calendar and weather features into per-day sales
// predictions using a frozen model.
type Forecaster struct {
	model Predictor
}

// New validates the model's feature columns against the builder and returns
// a forecaster.
func New(model Predictor) (*Forecaster, error) {
	if err := validateFeatures(model); err != nil {
		return nil, err
	}
	return &Forecaster{model: model}, nil
}

// PredictDailySales scores one feature row per day in [start, end]
// inclusive. festivalFlags carries one 0/1 entry per day; weather rows are
// joined on date and missing days contribute zero weather features.
func (f *Forecaster) PredictDailySales(start, end time.Time, festivalFlags []int, weather []DailyWeatherInput) ([]domain.DailyPrediction, error) {
	start = domain.DateOf(start)
	end = domain.DateOf(end)
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s",
			domain.FormatDate(end), domain.FormatDate(start))
	}

	days := int(end.Sub(start).Hours()/24) + 1
	if len(festivalFlags) != days {
		return nil, fmt.Errorf("%w: %d festival flags for %d days",
			ErrFeatureMismatch, len(festivalFlags), days)
	}

	byDate := make(map[time.Time]weatherFeatures, len(weather))
	for _, w := range weather {
		byDate[domain.DateOf(w.Date)] = weatherFeatures{
			code:        w.WeatherCode,
			temperature: w.Temperature,
			snowfall:    w.Snowfall,
			rain:        w.Rain,
		}
	}

	x := mat.NewDense(days, len(expectedFeatures), nil)
	dates := make([]time.Time, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		dates[i] = date
		row, err := featureRow(f.model, date, festivalFlags[i], byDate[date])
		if err != nil {
			return nil, err
		}
		x.SetRow(i, row)
	}

	sales, err := f.model.Predict(x)
	if err != nil {
		return nil, err
	}

	preds := make([]domain.DailyPrediction, days)
	for i, s := range sales {
		if s < 0 {
			s = 0
		}
		preds[i] = domain.DailyPrediction{Date: dates[i], PredictedSales: s}
	}
	return preds, nil
}

// DailyWeatherInput is one day of weather features, decoupled from the
// calendar package so the forecaster stays leaf-like.
type DailyWeatherInput struct {
	Date        time.Time
	Rain        float64
	Snowfall    float64
	WeatherCode float64
	Temperature float64
}

// HourlySales distributes a day's predicted sales to one hour using the
// intraday profile.
func HourlySales(predictedSales float64, hour int) float64 {
	return predictedSales * domain.ProfileFraction(hour)
}
