package sui

import "errors"

var ErrClosed = errors.New("index store is not open")
var ErrTransactionNotFound = errors.New("transaction not found")
var ErrUnsupportedFilter = errors.New("unsupported transaction filter")
var ErrBadIndexRow = errors.New("malformed index row")
