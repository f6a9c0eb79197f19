// Command benchhist renders benchmark result files as clustered histograms.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
