// Package services talks to the remote metadata provider.
//
// It defines the PlaylistAPI boundary (paginated playlist listing plus the
// batched detail endpoint), the YouTube Data API v3 implementation, the
// pagination loop, and the raw-item normalizer.
package services
