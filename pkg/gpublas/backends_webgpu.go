//go:build webgpu

package gpublas

import _ "github.com/samcharles93/gpublas/internal/backend/webgpu"
