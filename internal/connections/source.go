// Package connections provides the connection registry boundary: where the
// engine learns which external financial institutions a user has linked.
package connections

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/globapay/txfeed/internal/domain"
)

// Source lists the active connections for a user. The engine only ever reads
// from the registry; it never creates, updates, or removes connections.
type Source interface {
	ListConnections(ctx context.Context, userID string) ([]domain.Connection, error)
}

// record is the on-disk registry row. The access token lives only here and in
// domain.Connection.AccessToken; neither is ever serialized back out.
type record struct {
	ConnectionID    string `json:"connection_id"`
	UserID          string `json:"user_id"`
	InstitutionName string `json:"institution_name"`
	InstitutionID   string `json:"institution_id"`
	AccessToken     string `json:"access_token"`
}

// FileSource reads connections from a JSON registry file. It is the
// single-instance stand-in for a real credential registry service; swap in
// another Source implementation for multi-instance deployments.
type FileSource struct {
	path string
	log  zerolog.Logger
}

// NewFileSource creates a file-backed connection source.
func NewFileSource(path string, log zerolog.Logger) *FileSource {
	return &FileSource{path: path, log: log}
}

// ListConnections returns the user's connections from the registry file. A
// missing file means no users have linked anything yet and yields an empty
// list rather than an error.
func (s *FileSource) ListConnections(ctx context.Context, userID string) ([]domain.Connection, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn().Str("path", s.path).Msg("connection registry file not found")
			return nil, nil
		}
		return nil, fmt.Errorf("ListConnections: reading registry: %w", err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ListConnections: parsing registry: %w", err)
	}

	var out []domain.Connection
	for _, rec := range records {
		if rec.UserID != userID {
			continue
		}
		id := rec.ConnectionID
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, domain.Connection{
			ID:              id,
			UserID:          rec.UserID,
			InstitutionName: rec.InstitutionName,
			InstitutionID:   rec.InstitutionID,
			AccessToken:     rec.AccessToken,
		})
	}
	return out, nil
}

var _ Source = (*FileSource)(nil)
