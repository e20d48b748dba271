package editor

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"
)

// Client-side gates checked before a video file is staged.
const (
	MaxVideoBytes   = 40 << 20 // 40 MB
	MaxVideoSeconds = 50.0
)

var (
	ErrVideoTooLarge = errors.New("video file exceeds 40 MB")
	ErrVideoTooLong  = errors.New("video exceeds 50 seconds")
)

// ValidateVideo applies the upload gates. Both checks run before any staging
// or network I/O.
func ValidateVideo(sizeBytes int64, durationSeconds float64) error {
	if sizeBytes > MaxVideoBytes {
		return ErrVideoTooLarge
	}
	if durationSeconds > MaxVideoSeconds {
		return ErrVideoTooLong
	}
	return nil
}

// VideoInfo describes a fetched video resource. Poster may be nil when no
// still frame could be decoded; the renderer falls back to a placeholder.
type VideoInfo struct {
	Duration float64
	Poster   image.Image
}

// Fetcher resolves remote media referenced by layout documents. Both calls
// suspend on network I/O and honor context cancellation.
type Fetcher interface {
	FetchImage(ctx context.Context, url string) (image.Image, error)
	FetchVideo(ctx context.Context, url string) (VideoInfo, error)
}

// HTTPFetcher fetches media over HTTP with a bounded request timeout so a
// stalled decode surfaces as a recoverable error instead of hanging the
// session.
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: 30 * time.Second}}
}

func (f *HTTPFetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (f *HTTPFetcher) FetchImage(ctx context.Context, url string) (image.Image, error) {
	data, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image at %s: %w", url, err)
	}
	return img, nil
}

func (f *HTTPFetcher) FetchVideo(ctx context.Context, url string) (VideoInfo, error) {
	data, err := f.get(ctx, url)
	if err != nil {
		return VideoInfo{}, err
	}
	dur, err := ProbeMP4Duration(data)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("failed to probe video at %s: %w", url, err)
	}
	// Still-frame extraction needs a full H.264 decode, which is out of
	// reach in-process; the renderer draws a labeled placeholder instead.
	return VideoInfo{Duration: dur}, nil
}

// ProbeMP4Duration reads the clip duration from the mvhd box of an MP4/MOV
// container.
func ProbeMP4Duration(data []byte) (float64, error) {
	moov, err := findBox(data, "moov")
	if err != nil {
		return 0, err
	}
	mvhd, err := findBox(moov, "mvhd")
	if err != nil {
		return 0, err
	}
	if len(mvhd) < 20 {
		return 0, errors.New("mvhd box truncated")
	}
	version := mvhd[0]
	if version == 1 {
		if len(mvhd) < 32 {
			return 0, errors.New("mvhd v1 box truncated")
		}
		timescale := binary.BigEndian.Uint32(mvhd[20:24])
		duration := binary.BigEndian.Uint64(mvhd[24:32])
		if timescale == 0 {
			return 0, errors.New("mvhd has zero timescale")
		}
		return float64(duration) / float64(timescale), nil
	}
	timescale := binary.BigEndian.Uint32(mvhd[12:16])
	duration := binary.BigEndian.Uint32(mvhd[16:20])
	if timescale == 0 {
		return 0, errors.New("mvhd has zero timescale")
	}
	return float64(duration) / float64(timescale), nil
}

// findBox walks sibling boxes at one container level and returns the payload
// of the first box with the given type.
func findBox(data []byte, boxType string) ([]byte, error) {
	for off := 0; off+8 <= len(data); {
		size := int64(binary.BigEndian.Uint32(data[off : off+4]))
		typ := string(data[off+4 : off+8])
		headerLen := int64(8)
		if size == 1 {
			if off+16 > len(data) {
				break
			}
			size = int64(binary.BigEndian.Uint64(data[off+8 : off+16]))
			headerLen = 16
		} else if size == 0 {
			// Box extends to end of data.
			size = int64(len(data) - off)
		}
		if size < headerLen || int64(off)+size > int64(len(data)) {
			break
		}
		if typ == boxType {
			return data[int64(off)+headerLen : int64(off)+size], nil
		}
		off += int(size)
	}
	return nil, fmt.Errorf("box %q not found", boxType)
}
