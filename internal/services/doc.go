// Package services provides typed access to the DiStreaming API resources.
//
// Each service wraps the shared [distream/internal/api.Client] for one
// resource family (auth/users, movies, genres, actors, reviews, watch
// history). Services never touch session state: authorization side effects
// (token attachment, 401 invalidation) live entirely in the client wrapper.
package services
