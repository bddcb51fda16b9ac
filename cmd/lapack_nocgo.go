//go:build !cgo
// +build !cgo

package cmd

import "fmt"

// enableFastLapack is a no-op in a cgo-free build; netlib's BLAS
// implementation requires linking against an external LAPACK/BLAS.
func enableFastLapack() {
	fmt.Fprintln(stderr, "quadgen: --fast-lapack requested but this binary was built without cgo, ignoring")
}
