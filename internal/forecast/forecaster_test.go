package forecast

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cccstore/shift-scheduler/internal/domain"
)

var testEncoder = map[string]float64{"autumn": 0, "spring": 1, "summer": 2, "winter": 3}

// flatModel predicts intercept + sum of coefficients*features with all-zero
// coefficients, i.e. a constant.
func flatModel(t *testing.T, intercept float64) *LinearModel {
	t.Helper()
	m, err := NewLinearModel(Artifact{
		Features:      append([]string(nil), expectedFeatures...),
		Coefficients:  make([]float64, len(expectedFeatures)),
		Intercept:     intercept,
		SeasonEncoder: testEncoder,
	})
	require.NoError(t, err)
	return m
}

func TestSeasonOf(t *testing.T) {
	assert.Equal(t, "winter", SeasonOf(time.December))
	assert.Equal(t, "winter", SeasonOf(time.February))
	assert.Equal(t, "spring", SeasonOf(time.March))
	assert.Equal(t, "summer", SeasonOf(time.August))
	assert.Equal(t, "autumn", SeasonOf(time.November))
}

func TestPredictDailySalesConstantModel(t *testing.T) {
	f, err := New(flatModel(t, 50000))
	require.NoError(t, err)

	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	preds, err := f.PredictDailySales(start, end, []int{0, 1, 0}, nil)
	require.NoError(t, err)
	require.Len(t, preds, 3)

	for i, p := range preds {
		assert.Equal(t, start.AddDate(0, 0, i), p.Date)
		assert.InDelta(t, 50000, p.PredictedSales, 1e-9)
	}
}

func TestPredictDailySalesUsesFeatures(t *testing.T) {
	// Only the is_festival coefficient is non-zero, so predictions differ
	// exactly by the festival flag.
	coefs := make([]float64, len(expectedFeatures))
	coefs[2] = 12000 // is_festival
	m, err := NewLinearModel(Artifact{
		Features:      append([]string(nil), expectedFeatures...),
		Coefficients:  coefs,
		Intercept:     40000,
		SeasonEncoder: testEncoder,
	})
	require.NoError(t, err)
	f, err := New(m)
	require.NoError(t, err)

	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	preds, err := f.PredictDailySales(start, start.AddDate(0, 0, 1), []int{1, 0}, nil)
	require.NoError(t, err)

	assert.InDelta(t, 52000, preds[0].PredictedSales, 1e-9)
	assert.InDelta(t, 40000, preds[1].PredictedSales, 1e-9)
}

func TestPredictDailySalesClampsNegative(t *testing.T) {
	f, err := New(flatModel(t, -500))
	require.NoError(t, err)

	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	preds, err := f.PredictDailySales(start, start, []int{0}, nil)
	require.NoError(t, err)
	assert.Zero(t, preds[0].PredictedSales)
}

func TestPredictDailySalesFlagCountMismatch(t *testing.T) {
	f, err := New(flatModel(t, 1))
	require.NoError(t, err)

	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	_, err = f.PredictDailySales(start, start.AddDate(0, 0, 1), []int{0}, nil)
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

func TestNewRejectsWrongColumns(t *testing.T) {
	m, err := NewLinearModel(Artifact{
		Features:      []string{"weekday", "month"},
		Coefficients:  []float64{1, 2},
		SeasonEncoder: testEncoder,
	})
	require.NoError(t, err)

	_, err = New(m)
	assert.ErrorIs(t, err, ErrFeatureMismatch)
}

func TestLoadArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales_model.json")
	body := `{
		"features": ["weekday","month","is_festival","season","weather_code","temperature","snowfall_sum","rain_sum","year","day","weekofyear"],
		"coefficients": [0,0,0,0,0,0,0,0,0,0,0],
		"intercept": 42000,
		"season_encoder": {"autumn":0,"spring":1,"summer":2,"winter":3}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	m, err := Load(path)
	require.NoError(t, err)

	code, err := m.SeasonCode("winter")
	require.NoError(t, err)
	assert.InDelta(t, 3, code, 1e-9)
}

func TestLoadMissingArtifact(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestHourlySales(t *testing.T) {
	assert.InDelta(t, 50000*0.052, HourlySales(50000, 9), 1e-9)
	assert.InDelta(t, 50000*0.10, HourlySales(50000, 12), 1e-9)
	assert.InDelta(t, 50000*0.09, HourlySales(50000, 24), 1e-9)
	assert.Zero(t, HourlySales(50000, 8))
}

func TestCoverageTarget(t *testing.T) {
	assert.Equal(t, 1, domain.CoverageTarget(0))
	assert.Equal(t, 1, domain.CoverageTarget(4999))
	assert.Equal(t, 1, domain.CoverageTarget(5000))
	assert.Equal(t, 2, domain.CoverageTarget(10000))
	assert.Equal(t, 4, domain.CoverageTarget(20000))
}
