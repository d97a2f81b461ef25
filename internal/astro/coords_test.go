package astro

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

var (
	greenwich = Observer{LatDeg: 51.4769, LonDeg: 0, Name: "Greenwich"}
	sydney    = Observer{LatDeg: -33.8688, LonDeg: 151.2093, Name: "Sydney"}
	quito     = Observer{LatDeg: -0.1807, LonDeg: -78.4678, Name: "Quito"}
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		at   time.Time
		want float64
	}{
		{time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC), 2451545.0},
		{time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), 2440587.5},
		{time.Date(2024, 3, 20, 3, 6, 0, 0, time.UTC), 2460389.6291667},
		// Zone offsets do not change the instant
		{time.Date(2000, 1, 1, 22, 0, 0, 0, time.FixedZone("AEST", 10*3600)), 2451545.0},
	}

	for _, tt := range tests {
		if got := julianDate(tt.at); !scalar.EqualWithinAbs(got, tt.want, 1e-6) {
			t.Errorf("julianDate(%v) = %.7f, want %.7f", tt.at, got, tt.want)
		}
	}
}

func TestSiderealTime(t *testing.T) {
	j2000 := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	if gmst := greenwichMeanSiderealTime(j2000); !scalar.EqualWithinAbs(gmst, 280.46, 0.01) {
		t.Errorf("GMST at J2000 = %v, want 280.46", gmst)
	}

	// One sidereal day later GMST repeats
	sidereal := 23*time.Hour + 56*time.Minute + 4*time.Second
	a := greenwichMeanSiderealTime(j2000)
	b := greenwichMeanSiderealTime(j2000.Add(sidereal))
	if d := math.Abs(a - b); d > 0.01 && d < 359.99 {
		t.Errorf("GMST after one sidereal day moved by %v°", d)
	}

	for lon := -180.0; lon <= 180; lon += 45 {
		lst := localSiderealTime(j2000, lon)
		if lst < 0 || lst >= 360 {
			t.Errorf("LST at lon=%v out of range: %v", lon, lst)
		}
		want := math.Mod(a+lon+360, 360)
		if !scalar.EqualWithinAbs(lst, want, 1e-9) {
			t.Errorf("LST at lon=%v = %v, want %v", lon, lst, want)
		}
	}
}

func TestEquatorialToHorizontal_CelestialPoles(t *testing.T) {
	at := time.Date(2024, 9, 1, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		dec    float64
		obs    Observer
		wantEl float64
		wantAz float64
	}{
		{"north pole from Greenwich", 90, greenwich, greenwich.LatDeg, 0},
		{"south pole from Sydney", -90, sydney, -sydney.LatDeg, 180},
		{"north pole below Sydney", 90, sydney, sydney.LatDeg, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EquatorialToHorizontal(SkyCoord{RAdeg: 123, DecDeg: tt.dec}, tt.obs, at)
			if !scalar.EqualWithinAbs(got.ElDeg, tt.wantEl, 1e-6) {
				t.Errorf("El = %v, want %v", got.ElDeg, tt.wantEl)
			}
			if d := math.Abs(math.Remainder(got.AzDeg-tt.wantAz, 360)); d > 1e-3 {
				t.Errorf("Az = %v, want %v", got.AzDeg, tt.wantAz)
			}
		})
	}
}

func TestEquatorialToHorizontal_Meridian(t *testing.T) {
	at := time.Date(2024, 6, 15, 21, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		obs    Observer
		dec    float64
		wantEl float64
		wantAz float64
	}{
		{"zenith at Greenwich", greenwich, greenwich.LatDeg, 90, -1},
		{"south of zenith", greenwich, 0, 90 - greenwich.LatDeg, 180},
		{"north of zenith from Sydney", sydney, 0, 90 + sydney.LatDeg, 0},
		{"equator zenith at Quito", quito, quito.LatDeg, 90, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// RA = LST puts the point on the upper meridian
			ra := localSiderealTime(at, tt.obs.LonDeg)
			got := EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: tt.dec}, tt.obs, at)

			if !scalar.EqualWithinAbs(got.ElDeg, tt.wantEl, 1e-5) {
				t.Errorf("El = %v, want %v", got.ElDeg, tt.wantEl)
			}
			if tt.wantAz >= 0 {
				if d := math.Abs(math.Remainder(got.AzDeg-tt.wantAz, 360)); d > 1e-3 {
					t.Errorf("Az = %v, want %v", got.AzDeg, tt.wantAz)
				}
			}
		})
	}
}

func TestEquatorialToHorizontal_EastRisingWestSetting(t *testing.T) {
	at := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	lst := localSiderealTime(at, greenwich.LonDeg)

	// Six hours of hour angle either side of the meridian on the equator
	east := EquatorialToHorizontal(SkyCoord{RAdeg: lst + 90, DecDeg: 0}, greenwich, at)
	west := EquatorialToHorizontal(SkyCoord{RAdeg: lst - 90, DecDeg: 0}, greenwich, at)

	if !scalar.EqualWithinAbs(east.ElDeg, 0, 1e-6) || !scalar.EqualWithinAbs(east.AzDeg, 90, 1e-6) {
		t.Errorf("rising point = El %v Az %v, want El 0 Az 90", east.ElDeg, east.AzDeg)
	}
	if !scalar.EqualWithinAbs(west.ElDeg, 0, 1e-6) || !scalar.EqualWithinAbs(west.AzDeg, 270, 1e-6) {
		t.Errorf("setting point = El %v Az %v, want El 0 Az 270", west.ElDeg, west.AzDeg)
	}
}

func TestEquatorialToHorizontal_KeepsInputs(t *testing.T) {
	in := SkyCoord{RAdeg: 100, DecDeg: 20, RangeKm: 384400}
	out := EquatorialToHorizontal(in, sydney, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if out.RAdeg != in.RAdeg || out.DecDeg != in.DecDeg || out.RangeKm != in.RangeKm {
		t.Errorf("inputs not carried through: %+v -> %+v", in, out)
	}
}

func TestEquatorialToHorizontal_Ranges(t *testing.T) {
	at := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	for _, obs := range []Observer{greenwich, sydney, quito} {
		for ra := 0.0; ra < 360; ra += 30 {
			for dec := -80.0; dec <= 80; dec += 20 {
				got := EquatorialToHorizontal(SkyCoord{RAdeg: ra, DecDeg: dec}, obs, at)
				if got.AzDeg < 0 || got.AzDeg >= 360 {
					t.Errorf("%s RA=%v Dec=%v: Az=%v", obs.Name, ra, dec, got.AzDeg)
				}
				if got.ElDeg < -90 || got.ElDeg > 90 {
					t.Errorf("%s RA=%v Dec=%v: El=%v", obs.Name, ra, dec, got.ElDeg)
				}
			}
		}
	}
}

func TestEquatorialToHorizontal_FirstPointOfAries(t *testing.T) {
	// From the equator the vernal equinox culminates overhead at LST 0.
	start := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	best, bestLST := start, 360.0
	for m := 0; m < 24*60; m++ {
		at := start.Add(time.Duration(m) * time.Minute)
		lst := localSiderealTime(at, 0)
		if d := math.Min(lst, 360-lst); d < bestLST {
			best, bestLST = at, d
		}
	}

	got := EquatorialToHorizontal(FirstPointOfAries, Observer{}, best)
	if got.ElDeg < 89 {
		t.Errorf("First Point of Aries at LST≈0 from the equator: El=%v°, want ~90°", got.ElDeg)
	}
}
