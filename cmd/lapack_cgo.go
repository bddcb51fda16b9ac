//go:build cgo
// +build cgo

package cmd

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	netblas "gonum.org/v1/netlib/blas/netlib"
)

// enableFastLapack swaps gonum's pure-Go BLAS implementation for the
// cgo-linked netlib one, mirroring utils/lapack_cgo.go's build-tagged
// blas64.Use call.
func enableFastLapack() {
	blas64.Use(netblas.Implementation{})
	fmt.Fprintln(stderr, "quadgen: using netlib to accelerate BLAS")
}
