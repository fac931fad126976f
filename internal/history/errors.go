// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package history

import "errors"

// ErrNotFound reports an unknown product or customer. This is an expected
// outcome, not a fault: callers map it to a 404, and it is never logged as
// an error.
var ErrNotFound = errors.New("not found")
