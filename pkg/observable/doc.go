// Package observable downloads notebook exports from the ObservableHQ API.
//
// # Overview
//
// A notebook is addressed by a [notebook.Name]: "@user/slug[@rev]" for public
// notebooks or a 16-hex id for private ones. The export is fetched from
//
//	https://api.observablehq.com/@user/slug[@rev].js
//	https://api.observablehq.com/d/<id>[@rev].js
//
// Private notebooks require an API key, sent as "Authorization: ApiKey <key>".
// Keys are created at https://observablehq.com/settings/api-keys.
//
// # Usage
//
//	c := observable.NewClient(cache.NewNullCache(), observable.Config{
//	    APIKey: os.Getenv(observable.APIKeyEnv),
//	})
//	text, err := c.FetchNotebook(ctx, "@sebastien/boilerplate", false)
//
// # Caching and Retries
//
// Responses are stored in the given [cache.Cache] for Config.TTL; pass
// refresh to bypass it. Transport failures and 5xx or 429 responses are
// retried with exponential backoff.
//
// # Errors
//
// Errors carry codes from [errors]: INVALID_NAME for unparsable names,
// UNAUTHORIZED for a missing key or a 401/403 answer, NOT_FOUND for 404 and
// NETWORK_ERROR otherwise.
package observable
