// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client is a Go client for the quickly-vote HTTP API.

	c := client.New("http://localhost:3318")
	receipt, err := c.Submit(ctx, tx)

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Code != nil {
		// program error code, e.g. 9 for a repeat vote
	}

Non-2xx responses are returned as *APIError; 404s also match ErrNotFound.
*/
package client
