package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bbtyping/go-typingtips/internal/files"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// RequestIDHeader carries a unique id per request, to correlate client and service logs.
const RequestIDHeader = "X-Request-Id"

// maxResponseSize bounds the response body read from the service.
const maxResponseSize = 32 << 20

type requestBody struct {
	Code string `json:"code"`
}

// request posts text to the service and returns the raw response, after checking that it decodes into a
// valid tip stream.
func (c *Client) request(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(requestBody{Code: text})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode request")
	}
	url := c.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create request to %q", url)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	klog.V(1).Infof("fetching tip stream from %s (request %s, %d characters)", url, requestID, len([]rune(text)))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s to %q failed", requestID, url)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("request %s to %q failed with status %s", requestID, url, resp.Status)
	}
	content, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read response of request %s", requestID)
	}
	if _, err := decode(content); err != nil {
		return nil, errors.WithMessagef(err, "invalid response to request %s", requestID)
	}
	return content, nil
}

// cachedDownload returns the tip stream response for text stored in filePath, requesting it from the
// service first if filePath doesn't exist or forceDownload is true.
//
// The response is written to filePath+".tmp" and then atomically moved to filePath. A temporary
// filePath+".lock" coordinates multiple processes fetching the same text at the same time.
func (c *Client) cachedDownload(ctx context.Context, text, filePath string, forceDownload bool) ([]byte, error) {
	if files.Exists(filePath) {
		if !forceDownload {
			return readCached(filePath)
		}
		if err := os.Remove(filePath); err != nil {
			return nil, errors.Wrapf(err, "failed to remove %q while force-fetching", filePath)
		}
	}

	// Checks whether context has already been cancelled, and exit immediately.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), files.DefaultDirCreationPerm); err != nil {
		return nil, errors.Wrapf(err, "failed to create directory for file %q", filePath)
	}

	lockPath := filePath + ".lock"
	var (
		content []byte
		mainErr error
	)
	errLock := files.ExecOnFileLock(ctx, lockPath, func() {
		if files.Exists(filePath) {
			// Some concurrent other process (or goroutine) already fetched it.
			content, mainErr = readCached(filePath)
			return
		}
		content, mainErr = c.request(ctx, text)
		if mainErr != nil {
			return
		}
		if mainErr = files.WriteAtomic(filePath, content); mainErr != nil {
			return
		}
		// File already exists, so we no longer need the lock file.
		if err := os.Remove(lockPath); err != nil {
			klog.Warningf("error removing lock file %q: %+v", lockPath, err)
		}
	})
	if mainErr != nil {
		return nil, mainErr
	}
	if errLock != nil {
		return nil, errors.WithMessagef(errLock, "while locking %q to fetch tips", lockPath)
	}
	return content, nil
}

func readCached(filePath string) ([]byte, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cached tip stream %q", filePath)
	}
	klog.V(2).Infof("tip stream read from cache %q", filePath)
	return content, nil
}
