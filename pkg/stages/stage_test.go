package stages

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/tenantkit/tenantkit/pkg/types"
)

func TestChainStages(t *testing.T) {
	stage1 := func(ctx context.Context, opts []*types.Option, in <-chan int) <-chan int {
		out := make(chan int)
		go func() {
			defer close(out)
			for i := range in {
				out <- i + 1
			}
		}()
		return out
	}

	stage2 := func(ctx context.Context, opts []*types.Option, in <-chan int) <-chan int {
		out := make(chan int)
		go func() {
			defer close(out)
			for i := range in {
				out <- i * 2
			}
		}()
		return out
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// test single stage
	input := make(chan int, 1)
	input <- 1
	close(input)

	chain, err := ChainStages[int, int](stage1)
	if err != nil {
		t.Errorf("Error chaining stages: %v", err)
	}

	output := chain(ctx, nil, input)
	result := <-output
	if result != 2 {
		t.Errorf("Expected 2, but got %d", result)
	}

	// test multiple stages
	input = make(chan int, 1)
	input <- 1
	close(input)

	chain, err = ChainStages[int, int](stage1, stage2)
	if err != nil {
		t.Errorf("Error chaining stages: %v", err)
	}

	output = chain(ctx, nil, input)

	result = <-output
	expected := 4 // (1 + 1) * 2

	if result != expected {
		t.Errorf("Expected %d, but got %d", expected, result)
	}
}

func TestChainStagesDifferentTypes(t *testing.T) {
	stage1 := func(ctx context.Context, opts []*types.Option, in <-chan int) <-chan string {
		out := make(chan string)
		go func() {
			defer close(out)
			for i := range in {
				out <- strconv.Itoa(i)
			}
		}()
		return out
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	input := make(chan int, 1)
	input <- 7
	close(input)

	chain, err := ChainStages[int, string](stage1)
	if err != nil {
		t.Fatalf("Error chaining stages: %v", err)
	}

	output := chain(ctx, nil, input)
	if result := <-output; result != "7" {
		t.Errorf("Expected \"7\", but got %q", result)
	}
}

func TestChainStagesIncompatibleTypes(t *testing.T) {
	stage1 := func(ctx context.Context, opts []*types.Option, in <-chan int) <-chan string {
		out := make(chan string)
		close(out)
		return out
	}
	stage2 := func(ctx context.Context, opts []*types.Option, in <-chan int) <-chan int {
		out := make(chan int)
		close(out)
		return out
	}

	if _, err := ChainStages[int, int](stage1, stage2); err == nil {
		t.Error("Expected incompatible stage types to error")
	}
}

func TestGenerator(t *testing.T) {
	inputs := []string{"a", "b", "c"}

	var got []string
	for v := range Generator(inputs) {
		got = append(got, v)
	}

	if len(got) != len(inputs) {
		t.Fatalf("Expected %d values, got %d", len(inputs), len(got))
	}
	for i, v := range inputs {
		if got[i] != v {
			t.Errorf("Expected %q at %d, got %q", v, i, got[i])
		}
	}
}
