package db

import "time"

// defaultTimeout bounds every storage operation.
const defaultTimeout = 10 * time.Second
