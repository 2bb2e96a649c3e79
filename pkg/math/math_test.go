package math

import "testing"

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		name string
		n    int
		want bool
	}{
		{name: "negative", n: -4, want: false},
		{name: "zero", n: 0, want: false},
		{name: "one", n: 1, want: true},
		{name: "two", n: 2, want: true},
		{name: "three", n: 3, want: false},
		{name: "four", n: 4, want: true},
		{name: "six", n: 6, want: false},
		{name: "large_power", n: 1 << 20, want: true},
		{name: "large_non_power", n: (1 << 20) + 1, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPowerOfTwo(tt.n); got != tt.want {
				t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestCeilToPowerOfTwo(t *testing.T) {
	type args struct {
		n int
	}
	tests := []struct {
		name string
		args args
		want int
	}{
		// Boundary value tests: 0, 1, 2
		{name: "zero", args: args{n: 0}, want: 2},
		{name: "one", args: args{n: 1}, want: 2},
		{name: "two", args: args{n: 2}, want: 2},

		// Small value tests: 3-15
		{name: "three", args: args{n: 3}, want: 1 << 2},
		{name: "four", args: args{n: 4}, want: 1 << 2},
		{name: "five", args: args{n: 5}, want: 1 << 3},
		{name: "eight", args: args{n: 8}, want: 1 << 3},
		{name: "nine", args: args{n: 9}, want: 1 << 4},
		{name: "fifteen", args: args{n: 15}, want: 1 << 4},

		// Tests for powers of two
		{name: "power_of_two_16", args: args{n: 1 << 4}, want: 1 << 4},
		{name: "power_of_two_256", args: args{n: 1 << 8}, want: 1 << 8},
		{name: "power_of_two_1024", args: args{n: 1 << 10}, want: 1 << 10},

		// Values near powers of two
		{name: "near_power_17", args: args{n: (1 << 4) + 1}, want: 1 << 5},
		{name: "near_power_1023", args: args{n: (1 << 10) - 1}, want: 1 << 10},

		// Large value tests
		{name: "very_large_1M_minus_1", args: args{n: 1<<20 - 1}, want: 1 << 20},
		{name: "very_large_1M", args: args{n: 1 << 20}, want: 1 << 20},
		{name: "very_large_1M_plus_1", args: args{n: 1<<20 + 1}, want: 1 << 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CeilToPowerOfTwo(tt.args.n); got != tt.want {
				t.Errorf("CeilToPowerOfTwo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLog2(t *testing.T) {
	tests := []struct {
		n    int
		want uint
	}{
		{n: 1, want: 0},
		{n: 2, want: 1},
		{n: 4, want: 2},
		{n: 8, want: 3},
		{n: 1024, want: 10},
		{n: 1 << 30, want: 30},
	}
	for _, tt := range tests {
		if got := Log2(tt.n); got != tt.want {
			t.Errorf("Log2(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
