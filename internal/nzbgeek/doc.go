// Package nzbgeek provides the client for the NZBGeek submit API.
//
// # Overview
//
// The package uploads NZB files to the indexer and interprets the response
// envelope it sends back. It is split into three files:
//
//   - client.go: HTTP client, multipart encoding, transport errors
//   - envelope.go: response decoding and outcome classification
//   - categories.go: the category catalog used when choosing a batch category
//
// # Client Usage
//
//	client, err := nzbgeek.NewClient(cfg.APIKey)
//	if err != nil {
//		return fmt.Errorf("init nzbgeek client: %w", err)
//	}
//
//	body, err := client.Submit(ctx, "/data/pending/a.nzb", "4010")
//	if err != nil {
//		log.Printf("submission failed: %v", err)
//	}
//
// # Request Format
//
// Every submission is a single POST to https://api.nzbgeek.info/submit:
//
//   - Query: apikey (always) and cat (when a category code is given)
//   - Body: multipart/form-data with one part named "nzb" carrying the file,
//     its base name as filename and Content-Type application/x-nzb
//   - User-Agent: nzbpost/<version> (<go version>; <os>; <arch>)
//   - Timeout: 60 seconds for the whole exchange
//
// There is no retry. A file that fails stays where it is and is offered again
// on the next batch.
//
// # Error Handling
//
// Submit returns *TransportError for every failure that prevents a response
// body from being returned:
//
//   - "read nzb: open ...: no such file or directory"
//   - "execute request: request timed out: ..."
//   - "submit: api returned status 503: busy"
//
// URL errors are rewritten so the API key carried in the query string never
// appears in messages or logs.
//
// # Response Envelope
//
// A successful exchange returns the body verbatim. Classify turns it into an
// Outcome:
//
//   - OutcomeAccepted: response.@attributes.REGISTER equals "OK"
//   - OutcomeRejected: valid JSON without that marker
//   - OutcomeUnparseable: anything that is not valid JSON
//
// Envelope.Lookup walks nested objects and treats missing keys, non-object
// intermediates and null values as a miss, so callers never need their own
// existence checks.
package nzbgeek
