package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"

	"github.com/custodia-labs/ytqa/internal/core/domain"
)

// writeAnswer writes text to path in the given encoding, creating parent
// directories. UTF-16 output is little endian with a byte order mark.
func writeAnswer(path string, encoding domain.OutputEncoding, text string) error {
	data, err := encodeAnswer(encoding, text)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // answers are not secret
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func encodeAnswer(encoding domain.OutputEncoding, text string) ([]byte, error) {
	switch encoding {
	case domain.EncodingUTF8:
		return []byte(text), nil
	case domain.EncodingUTF16:
		data, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(text))
		if err != nil {
			return nil, fmt.Errorf("encode utf-16: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %q (want utf-8 or utf-16)", domain.ErrInvalidInput, encoding)
	}
}
