// Licensed to NASA JPL under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. NASA JPL licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package trackview

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// SmoothPicks - penalized spline fit of a surface pick series: minimizes
// sum((z-y)^2) + lambda*sum(second differences of z squared) by solving
// (I + lambda*DtD) z = y. Higher lambda gives a stiffer curve. Series
// shorter than 3 samples come back unchanged
func SmoothPicks(y []float64, lambda float64) ([]float64, error) {
	n := len(y)
	if n < 3 {
		result := make([]float64, n)
		copy(result, y)
		return result, nil
	}

	// DtD for the (n-2)xn second-difference operator, accumulated row by row
	dtd := make([][]float64, n)
	for i := range dtd {
		dtd[i] = make([]float64, n)
	}
	coeff := [3]float64{1, -2, 1}
	for i := 0; i < n-2; i++ {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				dtd[i+a][i+b] += coeff[a] * coeff[b]
			}
		}
	}

	sys := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := lambda * dtd[i][j]
			if i == j {
				v += 1
			}
			sys.SetSym(i, j, v)
		}
	}

	// I + lambda*DtD is symmetric positive definite
	var chol mat.Cholesky
	if ok := chol.Factorize(sys); !ok {
		return nil, errors.New("Smoothing system not positive definite")
	}

	var z mat.VecDense
	if err := chol.SolveVecTo(&z, mat.NewVecDense(n, y)); err != nil {
		return nil, errors.Wrap(err, "Failed to solve smoothing system")
	}

	result := make([]float64, n)
	for i := 0; i < n; i++ {
		result[i] = z.AtVec(i)
	}
	return result, nil
}
