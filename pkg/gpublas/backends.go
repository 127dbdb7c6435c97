package gpublas

// The CPU backend is always linked; cuda and webgpu are opt-in build tags.
import _ "github.com/samcharles93/gpublas/internal/backend/cpu"
