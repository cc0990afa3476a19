package offer

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// maxDocumentSize bounds a single upstream document.
const maxDocumentSize = 10 << 20

// fileLoader implements Loader for documents on the local file system.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based offer document loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "offer-loader").Logger(),
	}
}

// Load reads an offer document from disk.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]byte, error) {
	l.logger.Info().Str("file", filePath).Msg("loading offer document")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open offer document")
		return nil, fmt.Errorf("failed to open offer document %s: %w", filePath, err)
	}
	defer file.Close()

	data, err := readDocument(file, filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading offer document")
		return nil, err
	}

	l.logger.Info().
		Str("file", filePath).
		Int("bytes", len(data)).
		Msg("offer document loaded successfully")

	return data, nil
}

// readDocument reads r fully, gunzipping it when name ends in ".gz".
func readDocument(r io.Reader, name string) ([]byte, error) {
	if strings.HasSuffix(name, ".gz") {
		gzipReader, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", name, err)
		}
		defer gzipReader.Close()
		r = gzipReader
	}

	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("error reading offer document %s: %w", name, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("offer document %s exceeds %d bytes", name, maxDocumentSize)
	}

	return data, nil
}
