package compare

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/AndreyAkinshin/simregress/internal/artifact"
	"github.com/AndreyAkinshin/simregress/internal/errors"
	"github.com/AndreyAkinshin/simregress/internal/frame"
)

func TestEqualValues(t *testing.T) {
	t.Parallel()
	exact := DefaultComparisonConfig()
	tests := []struct {
		name     string
		exp, act any
		cfg      ComparisonConfig
		want     bool
	}{
		{"nil nil", nil, nil, exact, true},
		{"nil number", nil, 1.0, exact, false},
		{"int float", int64(3), 3.0, exact, true},
		{"number string", 1.0, "1", exact, false},
		{"strings", "Base", "Base", exact, true},
		{"nan equal", math.NaN(), math.NaN(), exact, true},
		{"nan unequal", math.NaN(), math.NaN(), ComparisonConfig{NaNEqualsNaN: false}, false},
		{"inf", math.Inf(1), math.Inf(1), exact, true},
		{"exact differs", 0.1, 0.1 + 1e-12, exact, false},
		{"absolute", 1.0, 1.05, ComparisonConfig{FloatTolerance: 0.1}, true},
		{"relative", 100.0, 101.0, ComparisonConfig{FloatTolerance: 0.02, ToleranceMode: ToleranceModeRelative}, true},
		{"relative zero", 0.0, 0.5, ComparisonConfig{FloatTolerance: 0.1, ToleranceMode: ToleranceModeRelative}, false},
		{"ulp", 1.0, math.Nextafter(1.0, 2), ComparisonConfig{FloatTolerance: 1, ToleranceMode: ToleranceModeULP}, true},
		{"ulp too far", 1.0, 1.0 + 1e-9, ComparisonConfig{FloatTolerance: 1, ToleranceMode: ToleranceModeULP}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EqualValues(tt.exp, tt.act, tt.cfg); got != tt.want {
				t.Errorf("EqualValues(%v, %v) = %v, want %v", tt.exp, tt.act, got, tt.want)
			}
		})
	}
}

func TestEqualSequences(t *testing.T) {
	t.Parallel()
	cfg := DefaultComparisonConfig()

	if ok, _ := EqualSequences([]any{1.0, 2.0, 3.0}, []any{1.0, 2.0, 3.0}, cfg); !ok {
		t.Error("identical sequences should be equal")
	}

	ok, detail := EqualSequences([]any{1.0, 2.0, 3.0}, []any{3.0, 2.0, 1.0}, cfg)
	if ok {
		t.Fatal("reordered sequence should differ")
	}
	if want := "row 0: baseline 1, candidate 3 (2 of 3 rows differ)"; detail != want {
		t.Errorf("detail = %q, want %q", detail, want)
	}

	ok, detail = EqualSequences([]any{1.0}, []any{1.0, 2.0}, cfg)
	if ok || detail != "length differs: baseline 1 rows, candidate 2 rows" {
		t.Errorf("length mismatch: ok=%v detail=%q", ok, detail)
	}
}

func TestULPDiff(t *testing.T) {
	t.Parallel()
	if d := ulpDiff(0, math.Copysign(0, -1)); d != 0 {
		t.Errorf("ulpDiff(+0, -0) = %d", d)
	}
	if d := ulpDiff(-math.SmallestNonzeroFloat64, math.SmallestNonzeroFloat64); d != 2 {
		t.Errorf("ulpDiff across zero = %d, want 2", d)
	}
}

func TestFrameSet_Keys(t *testing.T) {
	t.Parallel()
	s := FrameSet{}
	for _, k := range []Key{
		{CategoryTotals, "10"}, {CategoryTotals, "2"}, {CategoryDynamics, "x"}, {CategoryDynamics, "1"},
	} {
		s.Put(k, &frame.Table{})
	}
	want := []Key{
		{CategoryDynamics, "1"}, {CategoryDynamics, "x"}, {CategoryTotals, "2"}, {CategoryTotals, "10"},
	}
	if diff := cmp.Diff(want, s.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d", s.Len())
	}
}

func TestOverrides(t *testing.T) {
	t.Parallel()
	o := DefaultOverrides()
	if !o.Skips(Key{CategoryTotals, "5"}) || o.Skips(Key{CategoryDynamics, "5"}) || o.Skips(Key{CategoryTotals, "1"}) {
		t.Error("built-in skips wrong")
	}
	if o.ValueColumnFor("5") != "R0" || o.ValueColumnFor("1") != ValueColumn {
		t.Error("value columns wrong")
	}

	merged := o.Merge(Overrides{
		"5": {ValueColumn: "other"},
		"7": {Skip: []string{CategoryDynamics}, ValueColumn: "deaths"},
	})
	if merged.ValueColumnFor("5") != "R0" {
		t.Error("merge must not replace a built-in value column")
	}
	if !merged.Skips(Key{CategoryTotals, "5"}) || !merged.Skips(Key{CategoryDynamics, "7"}) {
		t.Error("merge lost a skip")
	}
	if merged.ValueColumnFor("7") != "deaths" {
		t.Errorf("ValueColumnFor(7) = %q", merged.ValueColumnFor("7"))
	}
	if len(o["5"].Skip) != 1 {
		t.Error("merge mutated the receiver")
	}
}

func writeArtifact(t *testing.T, path string, totals ...float64) {
	t.Helper()
	cells := make([]any, len(totals))
	for i, v := range totals {
		cells[i] = v
	}
	tbl, err := frame.New(&frame.Column{Name: TotalColumn, Type: frame.TypeFloat, Values: cells})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := artifact.Write(path, tbl); err != nil {
		t.Fatal(err)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeArtifact(t, filepath.Join(dir, "1-totals-master.arrow"), 1, 2)
	writeArtifact(t, filepath.Join(dir, "1-totals-test.arrow"), 1, 2)
	writeArtifact(t, filepath.Join(dir, "nested", "5-totals-master.arrow"))
	writeArtifact(t, filepath.Join(dir, "2-weekly-master.arrow"), 3)

	sets, err := Build(BuildOptions{
		Dir:          dir,
		BaselineTag:  "master",
		CandidateTag: "test",
		Categories:   DefaultCategories,
	}, DirLister{}, ArtifactLoader, zerolog.Nop())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	wantBase := []Key{{CategoryTotals, "1"}, {CategoryTotals, "5"}}
	if diff := cmp.Diff(wantBase, sets.Baseline.Keys()); diff != "" {
		t.Errorf("baseline keys (-want +got):\n%s", diff)
	}
	wantCand := []Key{{CategoryTotals, "1"}}
	if diff := cmp.Diff(wantCand, sets.Candidate.Keys()); diff != "" {
		t.Errorf("candidate keys (-want +got):\n%s", diff)
	}
}

func TestBuild_NoBaseline(t *testing.T) {
	t.Parallel()
	_, err := Build(BuildOptions{Dir: t.TempDir(), BaselineTag: "master", CandidateTag: "test"},
		DirLister{}, ArtifactLoader, zerolog.Nop())
	if !errors.Is(err, errors.KindMissingInput) {
		t.Fatalf("error = %v, want missing input", err)
	}
}

func TestBuild_MissingDir(t *testing.T) {
	t.Parallel()
	_, err := Build(BuildOptions{Dir: filepath.Join(t.TempDir(), "absent"), BaselineTag: "master", CandidateTag: "test"},
		DirLister{}, ArtifactLoader, zerolog.Nop())
	if !errors.Is(err, errors.KindMissingInput) {
		t.Fatalf("error = %v, want missing input", err)
	}
}

func TestBuild_SameTags(t *testing.T) {
	t.Parallel()
	_, err := Build(BuildOptions{Dir: t.TempDir(), BaselineTag: "master", CandidateTag: "master"},
		DirLister{}, ArtifactLoader, zerolog.Nop())
	if !errors.Is(err, errors.KindConfig) {
		t.Fatalf("error = %v, want config error", err)
	}
}

type staticLister []string

func (l staticLister) List(string, string, string) ([]string, error) { return l, nil }

func TestBuild_AllSkipped(t *testing.T) {
	t.Parallel()
	lister := staticLister{
		"d/1-total-master.arrow",
		"d/bogus-master.arrow",
		"d/1-totals-fix-master.arrow",
	}
	loader := LoaderFunc(func(path string) (*frame.Table, error) {
		t.Errorf("unexpected load of %s", path)
		return &frame.Table{}, nil
	})

	sets, err := Build(BuildOptions{
		BaselineTag:  "master",
		CandidateTag: "fix-master",
		Categories:   []string{"dynamics", "totals"},
	}, lister, loader, zerolog.Nop())
	if !errors.Is(err, errors.KindMissingInput) {
		t.Fatalf("error = %v, want missing input", err)
	}
	if sets != nil {
		t.Errorf("sets = %+v, want nil", sets)
	}
}

func TestBuild_LoaderErrors(t *testing.T) {
	t.Parallel()
	lister := staticLister{"/data/3-dynamics-master.arrow"}
	tbl := &frame.Table{}

	var requested []string
	absent := LoaderFunc(func(path string) (*frame.Table, error) {
		requested = append(requested, path)
		if path == "/data/3-dynamics-test.arrow" {
			return nil, fs.ErrNotExist
		}
		return tbl, nil
	})
	sets, err := Build(BuildOptions{BaselineTag: "master", CandidateTag: "test"}, lister, absent, zerolog.Nop())
	if err != nil {
		t.Fatalf("absent candidate must not abort: %v", err)
	}
	if sets.Candidate.Len() != 0 {
		t.Error("absent candidate should be left out")
	}
	if diff := cmp.Diff([]string{"/data/3-dynamics-master.arrow", "/data/3-dynamics-test.arrow"}, requested); diff != "" {
		t.Errorf("requested paths (-want +got):\n%s", diff)
	}

	broken := LoaderFunc(func(path string) (*frame.Table, error) {
		if path == "/data/3-dynamics-test.arrow" {
			return nil, os.ErrPermission
		}
		return tbl, nil
	})
	if _, err := Build(BuildOptions{BaselineTag: "master", CandidateTag: "test"}, lister, broken, zerolog.Nop()); err == nil {
		t.Error("unexpected load error should abort")
	}
}

func TestReport(t *testing.T) {
	t.Parallel()
	r := &Report{BaselineTag: "master", CandidateTag: "test", Checks: []CheckResult{
		{Name: CheckPresence},
		{Name: CheckTotals, Failures: []Failure{{Check: CheckTotals, Category: CategoryTotals, AnalysisID: "1", Column: "total", Detail: "row 0"}}},
	}}
	if r.Passed() || r.FailureCount() != 1 {
		t.Errorf("Passed=%v FailureCount=%d", r.Passed(), r.FailureCount())
	}
	if got := r.Checks[1].Failures[0].String(); got != "totals: totals/1[total]: row 0" {
		t.Errorf("Failure.String() = %q", got)
	}
	if !errors.Is(r.Err(), errors.KindValueMismatch) {
		t.Errorf("Err() = %v", r.Err())
	}
	if (&Report{Checks: []CheckResult{{Name: CheckPresence}}}).Err() != nil {
		t.Error("passing report should have nil Err")
	}
}
