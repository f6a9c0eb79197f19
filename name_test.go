package bench

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		in    string
		title string
		err   bool
	}{
		{"benchmark_1_A.csv", "A", false},
		{"benchmark_2020-01-02_Long title.csv", "Long title", false},
		{"benchmark_A.csv", "A", false},
		{"benchmark_1_.csv", "", false},
		{"benchmark.csv", "", true},
		{"benchmark_1_.cs", "", true},
		{"", "", true},
	}
	for _, test := range tests {
		title, err := ExtractTitle(test.in)
		if test.err {
			assert.ErrorIs(t, err, ErrMalformedFilename, "%q", test.in)
			continue
		}
		if assert.NoError(t, err, "%q", test.in) {
			assert.Equal(t, test.title, title, "%q", test.in)
		}
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		in, prefix string
		want       Name
	}{
		{"benchmark_1_A.csv", "benchmark_", Name{Prefix: "benchmark_", RawSuffix: "1", Title: "A"}},
		{"BENCHMARK_20200102_x_B.csv", "benchmark_", Name{Prefix: "BENCHMARK_", RawSuffix: "20200102_x", Title: "B"}},
		{"benchmark_A.csv", "benchmark_", Name{Prefix: "benchmark_", Title: "A"}},
		{"run_7_C.csv", "", Name{RawSuffix: "run_7", Title: "C"}},
	}
	for _, test := range tests {
		n, err := ParseName(test.in, test.prefix)
		if assert.NoError(t, err, "%q", test.in) {
			assert.Equal(t, test.want, n, "%q", test.in)
		}
	}

	_, err := ParseName("result_1_A.csv", "benchmark_")
	assert.ErrorIs(t, err, ErrMalformedFilename)
	_, err = ParseName("benchmark", "benchmark")
	assert.ErrorIs(t, err, ErrMalformedFilename)
}
