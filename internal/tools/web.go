// Copyright (C) 2025 Dyne.org foundation
// designed, written and maintained by Denis Roio <jaromil@dyne.org>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	apperrors "toolbelt/internal/errors"
)

type fetchWebpageArgs struct {
	URL       string `json:"url" jsonschema:"description=Webpage URL to retrieve,minLength=1"`
	TimeoutMs int    `json:"timeoutMs,omitempty" jsonschema:"description=Connection timeout in milliseconds (default: 10000)"`
}

func (tb *Toolbox) fetchWebpage(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	a, err := decodeArgs[fetchWebpageArgs](args)
	if err != nil {
		return nil, err
	}
	timeout := tb.Fetch.Timeout
	if a.TimeoutMs > 0 {
		timeout = time.Duration(a.TimeoutMs) * time.Millisecond
	}

	article, err := tb.fetchArticle(ctx, a.URL, timeout)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeIO, fmt.Sprintf("Failed to access URL: %s. Error", a.URL), err)
	}

	payload := map[string]interface{}{
		"url":     a.URL,
		"title":   article.Title,
		"content": strings.TrimSpace(article.TextContent),
	}
	if byline := strings.TrimSpace(article.Byline); byline != "" {
		payload["byline"] = byline
	}
	return payload, nil
}

func (tb *Toolbox) fetchArticle(ctx context.Context, rawURL string, timeout time.Duration) (readability.Article, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return readability.Article{}, err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return readability.Article{}, fmt.Errorf("unsupported URL scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return readability.Article{}, fmt.Errorf("URL has no host")
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return readability.Article{}, err
	}
	req.Header.Set("User-Agent", tb.Fetch.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")

	client := tb.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return readability.Article{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return readability.Article{}, fmt.Errorf("HTTP status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, tb.Fetch.MaxBytes+1))
	if err != nil {
		return readability.Article{}, err
	}
	if int64(len(body)) > tb.Fetch.MaxBytes {
		return readability.Article{}, fmt.Errorf("response exceeds %d bytes", tb.Fetch.MaxBytes)
	}

	return readability.FromReader(bytes.NewReader(body), resp.Request.URL)
}
