package swapi

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorld_Ratios(t *testing.T) {
	tests := []struct {
		name         string
		orbital      string
		rotation     string
		wantYears    Ratio
		wantDaysKnow bool
		wantDays     float64
	}{
		{
			name:         "unknown orbital period",
			orbital:      "unknown",
			rotation:     "24",
			wantYears:    UnknownRatio(),
			wantDaysKnow: true,
			wantDays:     1.0,
		},
		{
			name:         "fractional orbital period",
			orbital:      "4.1",
			rotation:     "unknown",
			wantYears:    KnownRatio(4.1 / 365.26),
			wantDaysKnow: false,
		},
		{
			name:         "non numeric is unknown",
			orbital:      "n/a",
			rotation:     "",
			wantYears:    UnknownRatio(),
			wantDaysKnow: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld("7", map[string]string{
				"orbital_period":  tt.orbital,
				"rotation_period": tt.rotation,
			})
			assert.Equal(t, tt.wantYears.Known, w.ToEarthYears.Known)
			assert.InDelta(t, tt.wantYears.Value, w.ToEarthYears.Value, 1e-12)
			assert.Equal(t, tt.wantDaysKnow, w.ToEarthDays.Known)
			if tt.wantDaysKnow {
				assert.InDelta(t, tt.wantDays, w.ToEarthDays.Value, 1e-9)
			}
		})
	}
}

func TestRatio_FourPointOne(t *testing.T) {
	w := NewWorld("1", map[string]string{"orbital_period": "4.1"})
	require.True(t, w.ToEarthYears.Known)
	assert.InDelta(t, 0.01122, w.ToEarthYears.Value, 1e-5)
	assert.Equal(t, "0.01", w.ToEarthYears.String())
	assert.Equal(t, "unknown", w.ToEarthDays.String())
}

func TestRatio_JSON(t *testing.T) {
	data, err := json.Marshal(UnknownRatio())
	require.NoError(t, err)
	assert.JSONEq(t, `"unknown"`, string(data))

	data, err = json.Marshal(KnownRatio(0.5))
	require.NoError(t, err)
	assert.JSONEq(t, `0.5`, string(data))

	var r Ratio
	require.NoError(t, json.Unmarshal([]byte(`"unknown"`), &r))
	assert.False(t, r.Known)
	require.NoError(t, json.Unmarshal([]byte(`1.25`), &r))
	assert.Equal(t, KnownRatio(1.25), r)

	assert.Error(t, json.Unmarshal([]byte(`"lots"`), &r))
	assert.Error(t, json.Unmarshal([]byte(`true`), &r))
}

func TestCharacter_JSONShape(t *testing.T) {
	w := NewWorld("1", map[string]string{
		"name": "Tatooine", "orbital_period": "304", "rotation_period": "unknown",
	})
	c := Character{
		ID:         "1",
		Attributes: map[string]string{"name": "Luke Skywalker", "height": "172"},
		Homeworld:  &w,
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "1", flat["id"])
	assert.Equal(t, "Luke Skywalker", flat["name"])

	hw, ok := flat["homeworld"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Tatooine", hw["name"])
	assert.Equal(t, "unknown", hw["to_earth_days"])
	assert.InDelta(t, 304.0/365.26, hw["to_earth_years"], 1e-9)

	var back Character
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
}

func TestCharacter_JSONWithoutHomeworld(t *testing.T) {
	c := Character{
		ID:         "11",
		Attributes: map[string]string{"name": "Anakin Skywalker", "homeworld": "http://stale/link"},
	}

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")

	var back Character
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Nil(t, back.Homeworld)
	assert.Equal(t, "Anakin Skywalker", back.Name())
}
