package dims

import (
	"errors"
	"testing"

	"github.com/phil-mansfield/imba/lib/eq"
	g_error "github.com/phil-mansfield/imba/lib/error"
)

func TestPrimeFactors(t *testing.T) {
	tests := []struct{
		n int
		fs []int
	} {
		{1, []int{ }},
		{2, []int{2}},
		{12, []int{2, 2, 3}},
		{13, []int{13}},
		{97, []int{97}},
		{360, []int{2, 2, 2, 3, 3, 5}},
		{1024, []int{2, 2, 2, 2, 2, 2, 2, 2, 2, 2}},
		{2*3*1009, []int{2, 3, 1009}},
		{49, []int{7, 7}},
		{2147483647, []int{2147483647}},
	}

	for i := range tests {
		fs, err := PrimeFactors(tests[i].n)
		if err != nil {
			t.Errorf("%d) Expected PrimeFactors(%d) to succeed, got '%s'.",
				i, tests[i].n, err.Error())
		} else if !eq.Ints(fs, tests[i].fs) {
			t.Errorf("%d) Expected PrimeFactors(%d) = %d, got %d.",
				i, tests[i].n, tests[i].fs, fs)
		}
	}

	for _, n := range []int{0, -1, -12} {
		_, err := PrimeFactors(n)
		if !errors.Is(err, g_error.InvalidArgument) {
			t.Errorf("Expected PrimeFactors(%d) to fail with an invalid " +
				"argument error, got %v.", n, err)
		}
	}
}

func TestCreate(t *testing.T) {
	tests := []struct{
		n int
		g Grid
	} {
		{1, Grid{1, 1, 1}},
		{2, Grid{2, 1, 1}},
		{8, Grid{2, 2, 2}},
		{12, Grid{3, 2, 2}},
		{13, Grid{13, 1, 1}},
		{24, Grid{3, 4, 2}},
		{64, Grid{4, 4, 4}},
		{97, Grid{97, 1, 1}},
		{2*97, Grid{97, 2, 1}},
		{2147483647, Grid{2147483647, 1, 1}},
	}

	for i := range tests {
		g, err := Create(tests[i].n)
		if err != nil {
			t.Errorf("%d) Expected Create(%d) to succeed, got '%s'.",
				i, tests[i].n, err.Error())
		} else if g != tests[i].g {
			t.Errorf("%d) Expected Create(%d) = %d, got %d.",
				i, tests[i].n, tests[i].g, g)
		}
	}
}

func TestCreateProduct(t *testing.T) {
	for n := 1; n <= 5000; n++ {
		g, err := Create(n)
		if err != nil {
			t.Fatalf("Create(%d) failed with '%s'.", n, err.Error())
		}
		if g.Product() != n {
			t.Errorf("Expected product of Create(%d) = %d to be %d, got %d.",
				n, g, n, g.Product())
		}
		for k := 0; k < 3; k++ {
			if g[k] <= 0 {
				t.Errorf("Create(%d) = %d has a non-positive axis.", n, g)
			}
		}
	}
}

func TestCreatePrime(t *testing.T) {
	for _, p := range []int{2, 3, 5, 7, 11, 13, 101, 7919} {
		g, err := Create(p)
		if err != nil {
			t.Errorf("Create(%d) failed with '%s'.", p, err.Error())
			continue
		}

		nP, nOne := 0, 0
		for k := 0; k < 3; k++ {
			if g[k] == p { nP++ }
			if g[k] == 1 { nOne++ }
		}
		if nP != 1 || nOne != 2 {
			t.Errorf("Expected Create(%d) to have one axis of %d and two " +
				"axes of 1, got %d.", p, p, g)
		}
	}
}

func TestCreateInvalid(t *testing.T) {
	for _, n := range []int{0, -1, -64} {
		_, err := Create(n)
		if err == nil {
			t.Errorf("Expected Create(%d) to fail, but got no error.", n)
		} else if !errors.Is(err, g_error.InvalidArgument) {
			t.Errorf("Expected Create(%d) to give an invalid argument " +
				"error, got '%s'.", n, err.Error())
		}
	}
}
