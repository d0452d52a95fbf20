package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactRecordYear(t *testing.T) {
	tests := []struct {
		name     string
		fact     FactRecord
		wantYear int
		wantOK   bool
	}{
		{
			name:     "fiscal year present",
			fact:     FactRecord{End: "2023-09-30", FiscalYear: Int(2023)},
			wantYear: 2023,
			wantOK:   true,
		},
		{
			name:     "fiscal year wins over end date",
			fact:     FactRecord{End: "2024-01-02", FiscalYear: Int(2023)},
			wantYear: 2023,
			wantOK:   true,
		},
		{
			name:     "derived from end date",
			fact:     FactRecord{End: "2022-12-31"},
			wantYear: 2022,
			wantOK:   true,
		},
		{
			name:   "no usable year",
			fact:   FactRecord{End: "n/a"},
			wantOK: false,
		},
		{
			name:   "empty record",
			fact:   FactRecord{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			year, ok := tt.fact.Year()
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantYear, year)
			}
		})
	}
}

func TestFactRecordRef(t *testing.T) {
	fact := FactRecord{
		End:         "2023-09-30",
		Value:       Float(383_285_000_000),
		FormType:    "10-K",
		FiledDate:   "2023-11-03",
		AccessionNo: "0000320193-23-000106",
	}

	ref := fact.Ref()
	assert.Equal(t, "10-K", ref.FormType)
	assert.Equal(t, "0000320193-23-000106", ref.AccessionNo)
	assert.Equal(t, "2023-11-03", ref.FiledDate)
	assert.Equal(t, "2023-09-30", ref.End)
}

func TestAnnualSeries(t *testing.T) {
	series := AnnualSeries{
		2022: {End: "2022-12-31", Value: Float(100)},
		2020: {End: "2020-12-31", Value: Float(80)},
		2021: {End: "2021-12-31", Value: nil},
	}

	assert.Equal(t, []int{2020, 2021, 2022}, series.Years())

	v, ok := series.Value(2020)
	require.True(t, ok)
	assert.Equal(t, 80.0, v)

	_, ok = series.Value(2021)
	assert.False(t, ok, "nil value should not be readable")

	_, ok = series.Value(2019)
	assert.False(t, ok, "absent year should not be readable")

	pairs := series.YearValues()
	require.Len(t, pairs, 2, "year without a value is skipped")
	assert.Equal(t, YearValue{Year: 2020, Value: 80}, pairs[0])
	assert.Equal(t, YearValue{Year: 2022, Value: 100}, pairs[1])
}

func TestMetricSeriesGet(t *testing.T) {
	series := MetricSeries{
		MetricRevenue: {{End: "2023-12-31", Value: Float(500)}},
	}

	assert.Len(t, series.Get(MetricRevenue), 1)
	assert.Nil(t, series.Get(MetricCapex), "missing metric yields nil")
}

func TestTristateJSON(t *testing.T) {
	tests := []struct {
		name  string
		value Tristate
		json  string
	}{
		{"true", True, "true"},
		{"false", False, "false"},
		{"unknown", Unknown, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.json, string(data))

			var back Tristate
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.value, back)
		})
	}
}

func TestTristateHelpers(t *testing.T) {
	assert.True(t, True.Known())
	assert.True(t, False.Known())
	assert.False(t, Unknown.Known())

	assert.True(t, True.Bool())
	assert.False(t, False.Bool())
	assert.False(t, Unknown.Bool())

	assert.Equal(t, True, TristateOf(true))
	assert.Equal(t, False, TristateOf(false))

	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "true", True.String())
}

func TestSignalSetFields(t *testing.T) {
	var s SignalSet

	assert.Len(t, s.CoreFields(), 12)
	assert.Len(t, s.RedFlagFields(), 5)
	assert.Len(t, s.AllFields(), 20)

	// A zero SignalSet is entirely unknown.
	for _, f := range s.AllFields() {
		assert.Equal(t, Unknown, f)
	}
	assert.False(t, s.AnyRedFlag())
}

func TestSignalSetAnyRedFlag(t *testing.T) {
	var s SignalSet
	s.RedFlags.Overleveraged = False
	assert.False(t, s.AnyRedFlag(), "known-false flags are not raised")

	s.RedFlags.CoverageThin = True
	assert.True(t, s.AnyRedFlag())
}

func TestSignalSetJSONShape(t *testing.T) {
	var s SignalSet
	s.Durability.RevenueCagrPositive = True
	s.RedFlags.MarginCollapse = False

	data, err := json.Marshal(&s)
	require.NoError(t, err)

	var decoded map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, true, decoded["durability"]["revenue_cagr_positive"])
	assert.Equal(t, false, decoded["red_flags"]["margin_collapse"])
	assert.Nil(t, decoded["moat"]["gross_margin_stable"], "unknown marshals as null")
}
