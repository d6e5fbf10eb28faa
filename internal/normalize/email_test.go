package normalize

import (
	"testing"

	"github.com/hydro414e13/prvcsh/internal/model"
)

// TestEmail tests the split between client-side results and a deferred
// server-side estimate.
func TestEmail(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		raw         map[string]any
		wantSig     model.EmailSignal
		wantAddress string
	}{
		{
			name: "client verdict used as is",
			raw: map[string]any{
				"tested":    true,
				"email":     "user@example.com",
				"leakFound": true,
				"breachSites": []any{
					map[string]any{"name": "ExampleBreach", "date": "2019-04-01", "count": float64(12000)},
				},
			},
			wantSig: model.EmailSignal{
				Performed: true,
				Leaked:    true,
				BreachSites: []model.BreachSite{
					{Name: "ExampleBreach", Date: "2019-04-01", Count: 12000},
				},
			},
			wantAddress: "",
		},
		{
			name: "no client verdict defers to server estimate",
			raw: map[string]any{
				"tested": true,
				"email":  "user@example.com",
			},
			wantSig:     model.EmailSignal{Performed: true},
			wantAddress: "user@example.com",
		},
		{
			name: "partial client result still defers",
			raw: map[string]any{
				"tested":    true,
				"email":     "user@example.com",
				"leakFound": false,
			},
			wantSig:     model.EmailSignal{Performed: true},
			wantAddress: "user@example.com",
		},
		{
			name:        "untested probe yields nothing",
			raw:         map[string]any{"email": "user@example.com"},
			wantSig:     model.EmailSignal{},
			wantAddress: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			gotSig, gotAddress := Email(tc.raw)
			if gotSig.Performed != tc.wantSig.Performed || gotSig.Leaked != tc.wantSig.Leaked {
				t.Errorf("signal = %+v, expected %+v", gotSig, tc.wantSig)
			}
			if len(gotSig.BreachSites) != len(tc.wantSig.BreachSites) {
				t.Fatalf("BreachSites = %v, expected %v", gotSig.BreachSites, tc.wantSig.BreachSites)
			}
			for i, site := range gotSig.BreachSites {
				if site != tc.wantSig.BreachSites[i] {
					t.Errorf("BreachSites[%d] = %+v, expected %+v", i, site, tc.wantSig.BreachSites[i])
				}
			}
			if gotAddress != tc.wantAddress {
				t.Errorf("address = %q, expected %q", gotAddress, tc.wantAddress)
			}
		})
	}
}
