package usecases

import "errors"

// Fault taxonomy for playback requests. Each maps to exactly one user-visible
// outcome at the orchestrator boundary.
var (
	// ErrUserNotInVoice is returned when the requester has no voice channel.
	ErrUserNotInVoice = errors.New("you must be in a voice channel")

	// ErrNoBackend is returned when no audio backend node is available.
	ErrNoBackend = errors.New("no audio backend available")

	// ErrNoResults is returned when resolution found no usable tracks.
	ErrNoResults = errors.New("no results found")

	// ErrResolveFailed is returned when the resolution backend failed.
	ErrResolveFailed = errors.New("failed to resolve track")

	// ErrCatalogFailed is returned when catalog expansion failed, including
	// credential acquisition failures.
	ErrCatalogFailed = errors.New("failed to fetch catalog data")

	// ErrNoSession is returned by session controls when no session exists.
	ErrNoSession = errors.New("nothing is playing in this server")

	// ErrNotPlaying is returned by pause/skip when playback is idle.
	ErrNotPlaying = errors.New("nothing is currently playing")

	// ErrNotPaused is returned by resume when playback is not paused.
	ErrNotPaused = errors.New("playback is not paused")
)
