package factor

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"factor-frenzy/internal/factor/domain"
)

// isPrime is an independent primality check (6k±1 wheel) used to verify factors.
func isPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	if n%3 == 0 {
		return n == 3
	}
	for i := int64(5); i*i <= n; i += 6 {
		if n%i == 0 || n%(i+2) == 0 {
			return false
		}
	}
	return true
}

func TestFactorize_Boundaries(t *testing.T) {
	tests := []struct {
		n    int64
		want domain.FactorList
	}{
		{2, domain.FactorList{2}},
		{3, domain.FactorList{3}},
		{4, domain.FactorList{2, 2}},
		{15, domain.FactorList{3, 5}},
		{21, domain.FactorList{3, 7}},
		{97, domain.FactorList{97}},
		{105, domain.FactorList{3, 5, 7}},
		{1024, domain.FactorList{2, 2, 2, 2, 2, 2, 2, 2, 2, 2}},
		{3 * 3 * 3 * 11, domain.FactorList{3, 3, 3, 11}},
		{999983, domain.FactorList{999983}},
		{1000000, domain.FactorList{2, 2, 2, 2, 2, 2, 5, 5, 5, 5, 5, 5}},
	}
	for _, tt := range tests {
		m, err := Factorize(tt.n)
		if err != nil {
			t.Fatalf("Factorize(%d): %v", tt.n, err)
		}
		if diff := cmp.Diff(tt.want, m.Factors); diff != "" {
			t.Errorf("Factorize(%d) factors mismatch (-want +got):\n%s", tt.n, diff)
		}
		if m.Target != tt.n {
			t.Errorf("Factorize(%d) target = %d", tt.n, m.Target)
		}
		if m.Elapsed < 0 {
			t.Errorf("Factorize(%d) elapsed = %v, want >= 0", tt.n, m.Elapsed)
		}
	}
}

func TestFactorize_ProductPrimeOrdered(t *testing.T) {
	limit := int64(1_000_000)
	step := int64(1)
	if testing.Short() {
		step = 97
	}
	for n := int64(2); n <= limit; n += step {
		m, err := Factorize(n)
		if err != nil {
			t.Fatalf("Factorize(%d): %v", n, err)
		}
		if len(m.Factors) == 0 {
			t.Fatalf("Factorize(%d) returned no factors", n)
		}
		if p := m.Factors.Product(); p != n {
			t.Fatalf("Factorize(%d) product = %d", n, p)
		}
		for i, f := range m.Factors {
			if !isPrime(f) {
				t.Fatalf("Factorize(%d) factor %d is not prime", n, f)
			}
			if i > 0 && m.Factors[i-1] > f {
				t.Fatalf("Factorize(%d) = %v is not non-decreasing", n, m.Factors)
			}
		}
	}
}

func TestFactorize_InvalidInput(t *testing.T) {
	for _, n := range []int64{1, 0, -1, -97} {
		_, err := Factorize(n)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Factorize(%d) err = %v, want ErrInvalidInput", n, err)
		}
	}
}

func TestFactorize_Idempotent(t *testing.T) {
	a, err := Factorize(360360)
	if err != nil {
		t.Fatalf("Factorize: %v", err)
	}
	b, err := Factorize(360360)
	if err != nil {
		t.Fatalf("Factorize: %v", err)
	}
	if !a.Factors.Equal(b.Factors) {
		t.Errorf("repeated Factorize differs: %v vs %v", a.Factors, b.Factors)
	}
	if a.Divisions != b.Divisions {
		t.Errorf("divisions differ: %d vs %d", a.Divisions, b.Divisions)
	}
}

func TestFactorize_LargeInt64DoesNotOverflow(t *testing.T) {
	// 2^62 is all twos; the scan stops after one candidate per halving.
	m, err := Factorize(1 << 62)
	if err != nil {
		t.Fatalf("Factorize: %v", err)
	}
	if len(m.Factors) != 62 {
		t.Fatalf("len(factors) = %d, want 62", len(m.Factors))
	}
	for _, f := range m.Factors {
		if f != 2 {
			t.Fatalf("factor = %d, want 2", f)
		}
	}
}

func TestFactorize_WorkGrowsWithPrimeSize(t *testing.T) {
	small, _ := Factorize(97)
	large, _ := Factorize(999983)
	if large.Divisions <= small.Divisions {
		t.Errorf("divisions for 999983 (%d) should exceed 97 (%d)", large.Divisions, small.Divisions)
	}
}

func TestFactorize_BoundShrinksWithRemainder(t *testing.T) {
	// 2^20: once the remainder is 1 the scan ends immediately.
	m, _ := Factorize(1 << 20)
	if m.Divisions != 1 {
		t.Errorf("Divisions = %d, want 1", m.Divisions)
	}
}

func TestFactorize_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := Factorize(9699690)
			if err != nil {
				errs <- err
				return
			}
			if !m.Factors.Equal([]int64{2, 3, 5, 7, 11, 13, 17, 19}) {
				errs <- errors.New("unexpected factors " + m.Factors.String())
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestRoundSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want float64
	}{
		{0, 0},
		{1400 * time.Nanosecond, 0.000001},
		{1600 * time.Nanosecond, 0.000002},
		{1234567 * time.Microsecond, 1.234567},
		{time.Second, 1},
	}
	for _, tt := range tests {
		if got := RoundSeconds(tt.d); got != tt.want {
			t.Errorf("RoundSeconds(%v) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestParseTarget(t *testing.T) {
	valid := map[string]int64{"2": 2, " 15 ": 15, "1024": 1024, "+21": 21}
	for in, want := range valid {
		got, err := ParseTarget(in)
		if err != nil {
			t.Errorf("ParseTarget(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseTarget(%q) = %d, want %d", in, got, want)
		}
	}

	for _, in := range []string{"", "  ", "abc", "7.5", "8.0", "1", "0", "-4", "1e3", "99999999999999999999"} {
		if _, err := ParseTarget(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ParseTarget(%q) err = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestBatch(t *testing.T) {
	ms, err := Batch(DefaultBatch)
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	want := []domain.FactorList{{3, 7}, {3, 11}, {3, 19}, {5, 13}}
	if len(ms) != len(want) {
		t.Fatalf("len = %d, want %d", len(ms), len(want))
	}
	for i, m := range ms {
		if m.Target != DefaultBatch[i] {
			t.Errorf("ms[%d].Target = %d, want %d", i, m.Target, DefaultBatch[i])
		}
		if diff := cmp.Diff(want[i], m.Factors); diff != "" {
			t.Errorf("ms[%d] mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestBatch_InvalidEntry(t *testing.T) {
	_, err := Batch([]int64{21, 1, 33})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestBatch_Empty(t *testing.T) {
	ms, err := Batch(nil)
	if err != nil {
		t.Fatalf("Batch(nil): %v", err)
	}
	if len(ms) != 0 {
		t.Errorf("len = %d, want 0", len(ms))
	}
}
