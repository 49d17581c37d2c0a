package usecase

import (
	"context"
	"errors"
	"io"

	"github.com/RealAndrewRen/postul/internal/ports"
)

// RecordMemo captures raw microphone audio into w until ctx is cancelled.
// No transcription and no analysis call happen in this mode. Returns the
// number of PCM bytes written.
func RecordMemo(ctx context.Context, capture ports.AudioCapture, cfg ports.AudioConfig, chunkSize int, w io.Writer) (int64, error) {
	if chunkSize < 256 {
		chunkSize = 4096
	}

	session, err := capture.Start(ctx, cfg)
	if err != nil {
		return 0, err
	}

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = session.Stop()
		case <-stopped:
		}
	}()
	defer close(stopped)
	defer func() { _ = session.Stop() }()

	var written int64
	buf := make([]byte, chunkSize)
	for {
		n, readErr := session.Read(buf)
		if n > 0 {
			wn, writeErr := w.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				return written, writeErr
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) || ctx.Err() != nil {
				return written, nil
			}
			return written, readErr
		}
	}
}
