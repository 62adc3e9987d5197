// Pomodesk
// Copyright (c) 2026 The Pomodesk Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Pomodesk.
//
// Pomodesk is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Pomodesk is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Pomodesk.  If not, see <http://www.gnu.org/licenses/>.

package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pomodesk/pomodesk/pkg/config"
)

const maxResponseSize = 1 << 20

// Client calls the HTTP API of a desk running on this host.
type Client struct {
	http    *http.Client
	baseURL string
}

func NewClient(cfg *config.Instance) *Client {
	return &Client{
		http:    &http.Client{Timeout: config.APIRequestTimeout},
		baseURL: "http://127.0.0.1:" + strconv.Itoa(cfg.APIPort()),
	}
}

// Call runs "endpoint" or "endpoint:json". A JSON body turns the request
// into a POST.
func (c *Client) Call(arg string) (string, error) {
	endpoint, body, hasBody := strings.Cut(arg, ":")
	endpoint = strings.TrimPrefix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return "", fmt.Errorf("api flag requires an endpoint")
	}

	method := http.MethodGet
	var reader io.Reader
	if hasBody {
		method = http.MethodPost
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, c.baseURL+"/"+endpoint, reader)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	out := strings.TrimSpace(string(data))
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%s returned %d: %s", endpoint, resp.StatusCode, out)
	}
	return out, nil
}
