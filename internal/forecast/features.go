package forecast

import (
	"fmt"
	"time"
)

// expectedFeatures is the column order the frozen model was trained on.
var expectedFeatures = []string{
	"weekday",
	"month",
	"is_festival",
	"season",
	"weather_code",
	"temperature",
	"snowfall_sum",
	"rain_sum",
	"year",
	"day",
	"weekofyear",
}

// SeasonOf maps a month to its season label: Dec-Feb winter, Mar-May spring,
// Jun-Aug summer, Sep-Nov autumn.
func SeasonOf(month time.Month) string {
	switch month {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}

// featureRow builds one model input row for a date. Weekday is Monday=0 to
// match the training data; year and week are ISO calendar values.
func featureRow(m Predictor, date time.Time, festival int, w weatherFeatures) ([]float64, error) {
	season, err := m.SeasonCode(SeasonOf(date.Month()))
	if err != nil {
		return nil, err
	}

	isoYear, isoWeek := date.ISOWeek()
	weekday := (int(date.Weekday()) + 6) % 7

	return []float64{
		float64(weekday),
		float64(date.Month()),
		float64(festival),
		season,
		w.code,
		w.temperature,
		w.snowfall,
		w.rain,
		float64(isoYear),
		float64(date.Day()),
		float64(isoWeek),
	}, nil
}

type weatherFeatures struct {
	code        float64
	temperature float64
	snowfall    float64
	rain        float64
}

// validateFeatures rejects a model whose columns disagree with the feature
// builder; scoring with misaligned columns would be silently wrong.
func validateFeatures(m Predictor) error {
	got := m.Features()
	if len(got) != len(expectedFeatures) {
		return fmt.Errorf("%w: model has %d columns, builder produces %d",
			ErrFeatureMismatch, len(got), len(expectedFeatures))
	}
	for i, name := range expectedFeatures {
		if got[i] != name {
			return fmt.Errorf("%w: column %d is %q, expected %q",
				ErrFeatureMismatch, i, got[i], name)
		}
	}
	return nil
}
