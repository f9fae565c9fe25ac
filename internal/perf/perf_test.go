package perf

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/swaglabs-e2e/internal/errs"
)

type stubPage struct {
	value any
	err   error
}

func (s stubPage) Evaluate(string, ...interface{}) (interface{}, error) { return s.value, s.err }

func TestNavigation(t *testing.T) {
	tests := []struct {
		name    string
		page    stubPage
		want    NavigationTiming
		wantErr bool
	}{
		{
			name: "float values",
			page: stubPage{value: map[string]interface{}{"pageLoad": 812.5, "domReady": 400.0, "responseTime": 12.25}},
			want: NavigationTiming{PageLoad: 812500 * time.Microsecond, DOMReady: 400 * time.Millisecond, ResponseTime: 12250 * time.Microsecond},
		},
		{
			name: "integer values",
			page: stubPage{value: map[string]interface{}{"pageLoad": 90, "domReady": 30, "responseTime": 5}},
			want: NavigationTiming{PageLoad: 90 * time.Millisecond, DOMReady: 30 * time.Millisecond, ResponseTime: 5 * time.Millisecond},
		},
		{
			name: "load not finished clamps to zero",
			page: stubPage{value: map[string]interface{}{"pageLoad": -120.0, "domReady": 30.0, "responseTime": 5.0}},
			want: NavigationTiming{DOMReady: 30 * time.Millisecond, ResponseTime: 5 * time.Millisecond},
		},
		{name: "no entry", page: stubPage{value: nil}, wantErr: true},
		{name: "missing field", page: stubPage{value: map[string]interface{}{"pageLoad": 1.0}}, wantErr: true},
		{name: "wrong type", page: stubPage{value: "fast"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Navigation(tt.page)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNavigation_EngineFailure(t *testing.T) {
	_, err := Navigation(stubPage{err: errors.New("target closed")})
	assert.True(t, errors.Is(err, errs.Engine))
}

func TestNavigation_NoEntry(t *testing.T) {
	_, err := Navigation(stubPage{})
	assert.True(t, errors.Is(err, ErrNoNavigationEntry))
}

func TestMeasureAndBudget(t *testing.T) {
	d, err := Measure(func() error {
		time.Sleep(5 * time.Millisecond)
		return nil
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, d, 5*time.Millisecond)

	assert.NoError(t, Budget{Name: "render", Max: time.Second}.Check(d))
	assert.Error(t, Budget{Name: "render", Max: time.Millisecond}.Check(d))

	boom := errors.New("boom")
	_, err = Measure(func() error { return boom })
	assert.Equal(t, boom, err)
}
