package config

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/schemats/schemats/client"
	"github.com/schemats/schemats/introspection"
)

func endpointUnits(ctx context.Context, endpoint *EndPointConfig) ([]*introspection.Unit, error) {
	httpClient := endpoint.Client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	schematsClient := client.NewClient(endpoint.URL, client.WithHTTPClient(httpClient), client.WithHTTPHeader(endpoint.Headers))

	var res jsontext.Value
	if err := schematsClient.Get(ctx, &res); err != nil {
		return nil, errors.Wrap(err, "fetch descriptions failed")
	}

	bundle, err := introspection.DecodeBundle(res)
	if err != nil {
		return nil, errors.Wrap(err, "validation error")
	}

	return bundle.Units, nil
}
