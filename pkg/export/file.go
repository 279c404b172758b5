package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/de-tools/billing-atlas/pkg/models/domain"
	"github.com/rs/zerolog"
)

// FileSink writes artifacts into a directory.
type FileSink struct {
	dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Save writes through a temporary file so readers never see a partial PDF.
func (s *FileSink) Save(ctx context.Context, artifact *domain.Artifact) (string, error) {
	if artifact.Name == "" || filepath.Base(artifact.Name) != artifact.Name {
		return "", fmt.Errorf("invalid artifact name %q", artifact.Name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(artifact.Data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}

	path := filepath.Join(s.dir, artifact.Name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move artifact into place: %w", err)
	}

	zerolog.Ctx(ctx).Info().Str("path", path).Int("bytes", len(artifact.Data)).Msg("report saved")
	return path, nil
}
