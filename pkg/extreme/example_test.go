package extreme_test

import (
	"fmt"

	"github.com/matzehuels/swmmcosim/pkg/extreme"
)

func ExampleFind() {
	// Two entities sampled three times: the peak is in row 0.
	d := extreme.Nested2([][]float64{{1, 9, 2}, {7, 3, 8}})
	x, _ := extreme.Find(d, true)
	fmt.Println(x[0].Value, x[0].Index)
	// Output:
	// 9 0
}

func ExampleMin() {
	d := extreme.Keyed(map[string]float64{"T-1": 3.2, "T-2": 1.4, "T-3": 2.8})
	x, _ := extreme.Min(d)
	fmt.Println(x[0].Key, x[0].Value)
	// Output:
	// T-2 1.4
}
