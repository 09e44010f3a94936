package upload

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
	"enhanced-seatmap/internal/pkg/errs"
)

var (
	ErrEmptyBody              = errs.New("upload body is empty")
	ErrStorageOperationFailed = errs.ErrStorageOperationFailed
)

const (
	contentType     = "application/xml"
	timestampFormat = "2006-01-02T15:04:05.000Z"
)

type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

type Uploader interface {
	Upload(ctx context.Context, body []byte) (string, error)
}

// Service stores relayed XML documents under generated keys. It never retries.
type Service struct {
	store  ObjectStore
	clock  clock.Clock
	prefix string
	newID  func() string
	logger *slog.Logger
}

func NewService(cfg config.RelayConfig, store ObjectStore, clk clock.Clock, logger *slog.Logger) *Service {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "enhanced-seatmap"
	}
	return &Service{
		store:  store,
		clock:  clk,
		prefix: prefix,
		newID:  randomID,
		logger: logger,
	}
}

func (s *Service) Upload(ctx context.Context, body []byte) (string, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		return "", ErrEmptyBody
	}
	key := s.key()
	if err := s.store.Put(ctx, key, body, contentType); err != nil {
		s.logger.Error("Upload failed", slog.String("key", key), slog.String("error", err.Error()))
		return "", errs.Mark(errs.Wrap(err, "failed to store upload"), ErrStorageOperationFailed)
	}
	s.logger.Info("Upload stored", slog.String("key", key), slog.Int("bytes", len(body)))
	return key, nil
}

// key is <prefix>-<UTC timestamp>-<random id>.xml. The timestamp has ':' and
// '.' replaced so the key is safe in every object store.
func (s *Service) key() string {
	ts := keySafe.Replace(s.clock.Now().UTC().Format(timestampFormat))
	return s.prefix + "-" + ts + "-" + s.newID() + ".xml"
}

var keySafe = strings.NewReplacer(":", "-", ".", "-")

func randomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
