//go:build cuda

package gpublas

import _ "github.com/samcharles93/gpublas/internal/backend/cuda"
