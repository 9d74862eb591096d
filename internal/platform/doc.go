package platform

// Package platform provides filesystem helpers for the artifact directory:
// sanitized, collision-free destination paths and human-readable sizes.
