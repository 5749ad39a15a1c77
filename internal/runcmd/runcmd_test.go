package runcmd

import (
	"context"
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures ProbeConcurrently's errgroup workers don't leak
// goroutines past the point their caller returns.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDefaultRunnerCapturesOutput(t *testing.T) {
	r := Default()
	res, err := r.Run(context.Background(), []string{"echo", "hello"}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != 0 {
		t.Fatalf("status = %d, want 0", res.Status)
	}
	if res.Stdout != "hello\n" {
		t.Fatalf("stdout = %q, want %q", res.Stdout, "hello\n")
	}
}

func TestDefaultRunnerReportsNonZeroExit(t *testing.T) {
	r := Default()
	res, err := r.Run(context.Background(), []string{"sh", "-c", "exit 3"}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != 3 {
		t.Fatalf("status = %d, want 3", res.Status)
	}
}

func TestEmptyArgvErrors(t *testing.T) {
	r := Default()
	if _, err := r.Run(context.Background(), nil, Options{}); err == nil {
		t.Fatalf("expected error for empty argv")
	}
}

type fakeRunner struct {
	status int
}

func (f fakeRunner) Run(ctx context.Context, argv []string, opts Options) (Result, error) {
	return Result{Status: f.status, Stdout: argv[0]}, nil
}

func TestProbeConcurrentlyPreservesOrder(t *testing.T) {
	candidates := [][]string{{"a"}, {"b"}, {"c"}}
	results := ProbeConcurrently(context.Background(), fakeRunner{}, candidates, Options{})
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, want := range []string{"a", "b", "c"} {
		if results[i].Result.Stdout != want {
			t.Errorf("results[%d].Stdout = %q, want %q", i, results[i].Result.Stdout, want)
		}
	}
}
