// Package forecast applies a frozen sales regression model to calendar and
// weather features to produce per-day predicted sales, and distributes those
// over store hours with the intraday profile.
package forecast

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrModelUnavailable means the model artifact could not be loaded.
	ErrModelUnavailable = errors.New("sales model unavailable")
	// ErrFeatureMismatch means feature columns disagree with what the
	// frozen model was trained on.
	ErrFeatureMismatch = errors.New("feature columns do not match model")
)

// Predictor is the capability the forecaster needs from a trained model:
// score a batch of feature rows. Implementations are read-only after load
// and safe for concurrent use.
type Predictor interface {
	Predict(x mat.Matrix) ([]float64, error)
	Features() []string
	SeasonCode(season string) (float64, error)
}

// Artifact is the serialized form of the frozen model: linear coefficients
// in feature order, the intercept, and the categorical season encoder that
// shipped with training.
type Artifact struct {
	Features      []string           `json:"features"`
	Coefficients  []float64          `json:"coefficients"`
	Intercept     float64            `json:"intercept"`
	SeasonEncoder map[string]float64 `json:"season_encoder"`
}

// LinearModel scores feature rows with frozen linear regression weights.
type LinearModel struct {
	features      []string
	coef          *mat.VecDense
	intercept     float64
	seasonEncoder map[string]float64
}

// Load reads a model artifact from disk. Any read or decode failure
// surfaces as ErrModelUnavailable.
func Load(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return NewLinearModel(art)
}

// NewLinearModel builds a model from a decoded artifact.
func NewLinearModel(art Artifact) (*LinearModel, error) {
	if len(art.Features) == 0 {
		return nil, fmt.Errorf("%w: artifact has no features", ErrModelUnavailable)
	}
	if len(art.Features) != len(art.Coefficients) {
		return nil, fmt.Errorf("%w: %d features but %d coefficients",
			ErrFeatureMismatch, len(art.Features), len(art.Coefficients))
	}
	return &LinearModel{
		features:      art.Features,
		coef:          mat.NewVecDense(len(art.Coefficients), art.Coefficients),
		intercept:     art.Intercept,
		seasonEncoder: art.SeasonEncoder,
	}, nil
}

// Features returns the column names the model expects, in order.
func (m *LinearModel) Features() []string { return m.features }

// SeasonCode encodes a season label with the frozen categorical encoder.
func (m *LinearModel) SeasonCode(season string) (float64, error) {
	code, ok := m.seasonEncoder[season]
	if !ok {
		return 0, fmt.Errorf("%w: season %q not in encoder", ErrFeatureMismatch, season)
	}
	return code, nil
}

// Predict scores each row of x: y = x·coef + intercept.
func (m *LinearModel) Predict(x mat.Matrix) ([]float64, error) {
	rows, cols := x.Dims()
	if cols != m.coef.Len() {
		return nil, fmt.Errorf("%w: %d columns but model has %d coefficients",
			ErrFeatureMismatch, cols, m.coef.Len())
	}

	var y mat.VecDense
	y.MulVec(x, m.coef)

	out := make([]float64, rows)
	for i := range out {
		out[i] = y.AtVec(i) + m.intercept
	}
	return out, nil
}
