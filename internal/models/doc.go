// Package models defines the data model for the DiStreaming catalog client.
//
// The types mirror the wire format of the remote REST API (snake_case JSON
// fields, server-assigned numeric IDs). The same structs back the local
// SQLite cache in [distream/internal/repositories].
package models
