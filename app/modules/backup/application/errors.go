package backupservice

import "errors"

// ErrInvalidRetention rejects a negative number of days to keep.
var ErrInvalidRetention = errors.New("retention must be zero or more days")
