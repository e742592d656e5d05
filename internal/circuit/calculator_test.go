package circuit

import (
	"errors"
	"math"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestComputeTotalKnownValues(t *testing.T) {
	cases := []struct {
		name   string
		kind   Kind
		topo   Topology
		values [3]float64
		want   float64
	}{
		{"resistor series", Resistor, Series, [3]float64{10, 20, 30}, 60},
		{"resistor parallel", Resistor, Parallel, [3]float64{10, 10, 10}, 10.0 / 3},
		{"capacitor series", Capacitor, Series, [3]float64{10, 10, 10}, 10.0 / 3},
		{"capacitor parallel", Capacitor, Parallel, [3]float64{10, 10, 10}, 30},
		{"inductor series", Inductor, Series, [3]float64{1, 2, 3}, 6},
		{"inductor parallel", Inductor, Parallel, [3]float64{2, 2, 1}, 0.5},
		{"resistor hybrid", Resistor, Hybrid, [3]float64{10, 20, 30}, 30 + 12},
		{"inductor hybrid", Inductor, Hybrid, [3]float64{10, 20, 30}, 42},
		// hybrid keeps one formula whatever the kind
		{"capacitor hybrid", Capacitor, Hybrid, [3]float64{10, 20, 30}, 42},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ComputeTotal(tc.kind, tc.topo, tc.values)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !approx(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

var sampleSets = [][3]float64{
	{10, 20, 30},
	{1, 1, 1},
	{0.5, 47, 220},
	{3.3, 3.3, 100},
	{199.99, 1, 42},
}

func permutations(v [3]float64) [][3]float64 {
	return [][3]float64{
		{v[0], v[1], v[2]}, {v[0], v[2], v[1]},
		{v[1], v[0], v[2]}, {v[1], v[2], v[0]},
		{v[2], v[0], v[1]}, {v[2], v[1], v[0]},
	}
}

func TestComputeTotalSymmetricUnderPermutation(t *testing.T) {
	for _, k := range Kinds {
		for _, topo := range []Topology{Series, Parallel} {
			for _, set := range sampleSets {
				base, err := ComputeTotal(k, topo, set)
				if err != nil {
					t.Fatalf("%s/%s %v: %v", k, topo, set, err)
				}
				for _, p := range permutations(set) {
					got, err := ComputeTotal(k, topo, p)
					if err != nil {
						t.Fatalf("%s/%s %v: %v", k, topo, p, err)
					}
					if !approx(got, base) {
						t.Errorf("%s/%s: %v -> %v, %v -> %v", k, topo, set, base, p, got)
					}
				}
			}
		}
	}
}

func TestComputeTotalBounds(t *testing.T) {
	for _, set := range sampleSets {
		lo := math.Min(set[0], math.Min(set[1], set[2]))
		hi := math.Max(set[0], math.Max(set[1], set[2]))

		for _, k := range []Kind{Resistor, Inductor} {
			s, _ := ComputeTotal(k, Series, set)
			if s < hi {
				t.Errorf("%s series %v = %v, want >= %v", k, set, s, hi)
			}
			p, _ := ComputeTotal(k, Parallel, set)
			if p > lo {
				t.Errorf("%s parallel %v = %v, want <= %v", k, set, p, lo)
			}
		}

		s, _ := ComputeTotal(Capacitor, Series, set)
		if s > lo {
			t.Errorf("capacitor series %v = %v, want <= %v", set, s, lo)
		}
		p, _ := ComputeTotal(Capacitor, Parallel, set)
		if p < hi {
			t.Errorf("capacitor parallel %v = %v, want >= %v", set, p, hi)
		}
	}
}

func TestCapacitorRulesAreSwapped(t *testing.T) {
	v := [3]float64{4, 8, 16}
	rs, _ := ComputeTotal(Resistor, Series, v)
	cp, _ := ComputeTotal(Capacitor, Parallel, v)
	rp, _ := ComputeTotal(Resistor, Parallel, v)
	cs, _ := ComputeTotal(Capacitor, Series, v)
	if !approx(rs, cp) || !approx(rp, cs) {
		t.Fatalf("expected swapped rules, got R(s=%v p=%v) C(s=%v p=%v)", rs, rp, cs, cp)
	}
	if approx(rs, cs) {
		t.Fatal("capacitor series must not reuse the resistor series rule")
	}
}

func TestStrictRejectsZeroAndNegative(t *testing.T) {
	bad := []struct {
		values [3]float64
		index  int
	}{
		{[3]float64{0, 10, 10}, 0},
		{[3]float64{10, 0, 10}, 1},
		{[3]float64{10, 10, -1}, 2},
		{[3]float64{10, math.NaN(), 10}, 1},
		{[3]float64{math.Inf(1), 10, 10}, 0},
	}
	for _, k := range Kinds {
		for _, topo := range Topologies {
			for _, b := range bad {
				got, err := ComputeTotal(k, topo, b.values)
				if !errors.Is(err, ErrDomain) {
					t.Fatalf("%s/%s %v: want ErrDomain, got %v (total %v)", k, topo, b.values, err, got)
				}
				var de *DomainError
				if !errors.As(err, &de) || de.Index != b.index {
					t.Errorf("%s/%s %v: want index %d, got %+v", k, topo, b.values, b.index, de)
				}
			}
		}
	}
}

func TestSkipZeroExcludesZeroFromReciprocalSums(t *testing.T) {
	calc := Calculator{Policy: SkipZero}

	got, err := calc.Total(Spec{Kind: Resistor, Topology: Parallel, Values: [3]float64{10, 0, 10}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(got, 5) {
		t.Errorf("parallel 10,0,10 = %v, want 5", got)
	}

	got, err = calc.Total(Spec{Kind: Resistor, Topology: Series, Values: [3]float64{10, 0, 10}})
	if err != nil || !approx(got, 20) {
		t.Errorf("series 10,0,10 = %v, %v; want 20", got, err)
	}

	// 10+0 plus the reciprocal branch with the zero dropped.
	got, err = calc.Total(Spec{Kind: Capacitor, Topology: Hybrid, Values: [3]float64{10, 0, 30}})
	if err != nil || !approx(got, 40) {
		t.Errorf("capacitor hybrid 10,0,30 = %v, %v; want 40", got, err)
	}

	_, err = calc.Total(Spec{Kind: Capacitor, Topology: Series, Values: [3]float64{0, 0, 0}})
	if !errors.Is(err, ErrDomain) {
		t.Errorf("all-zero reciprocal sum: want ErrDomain, got %v", err)
	}

	_, err = calc.Total(Spec{Kind: Inductor, Topology: Parallel, Values: [3]float64{-1, 2, 3}})
	if !errors.Is(err, ErrDomain) {
		t.Errorf("negative value: want ErrDomain, got %v", err)
	}
}

func TestNeverReturnsNonFinite(t *testing.T) {
	calc := Calculator{Policy: SkipZero}
	tiny := math.SmallestNonzeroFloat64
	huge := math.MaxFloat64

	for _, v := range [][3]float64{{tiny, tiny, tiny}, {huge, huge, huge}, {0, 0, tiny}} {
		for _, k := range Kinds {
			for _, topo := range Topologies {
				got, err := calc.Total(Spec{Kind: k, Topology: topo, Values: v})
				if err == nil && (math.IsNaN(got) || math.IsInf(got, 0)) {
					t.Errorf("%s/%s %v: non-finite %v without error", k, topo, v, got)
				}
				if err != nil && !errors.Is(err, ErrDomain) {
					t.Errorf("%s/%s %v: unexpected error type %v", k, topo, v, err)
				}
			}
		}
	}
}

func TestUnknownEnumerations(t *testing.T) {
	if _, err := ComputeTotal("diode", Series, [3]float64{1, 2, 3}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := ComputeTotal(Resistor, "delta", [3]float64{1, 2, 3}); err == nil {
		t.Error("expected error for unknown topology")
	}
}

func TestParse(t *testing.T) {
	if k, err := ParseKind(" Capacitor "); err != nil || k != Capacitor {
		t.Errorf("ParseKind = %q, %v", k, err)
	}
	if tp, err := ParseTopology("HYBRID"); err != nil || tp != Hybrid {
		t.Errorf("ParseTopology = %q, %v", tp, err)
	}
	if _, err := ParseKind("transistor"); err == nil {
		t.Error("expected error")
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		kind Kind
		v    float64
		want string
	}{
		{Resistor, 10.0 / 3, "3.33Ω"},
		{Capacitor, 30, "30.00F"},
		{Inductor, 2.675, "2.68H"},
	}
	for _, tc := range cases {
		if got := Format(tc.kind, tc.v); got != tc.want {
			t.Errorf("Format(%s, %v) = %q, want %q", tc.kind, tc.v, got, tc.want)
		}
	}
	if got := Round2(12.345678); got != 12.35 {
		t.Errorf("Round2 = %v", got)
	}
}
