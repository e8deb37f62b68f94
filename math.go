// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qtensor

import "fmt"

// checkedMul multiplies a and b and checks for overflow.
// Both operands must be non-negative: the check is skipped when either is
// 0 or 1, and is not sound for negative values. Callers validate the sign
// first, as New does for the tensor dimensions.
func checkedMul(a, b int) (int, error) {
	c := a * b
	if a > 1 && b > 1 && c/a != b {
		return c, fmt.Errorf("multiplication overflow: %d * %d", a, b)
	}
	return c, nil
}
