package nzbgeek

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUndecodable reports a response body that is not valid JSON.
var ErrUndecodable = errors.New("response is not valid JSON")

// Outcome classifies a submit response.
type Outcome int

const (
	// OutcomeUnparseable means the body could not be decoded.
	OutcomeUnparseable Outcome = iota
	// OutcomeRejected means the body decoded but carries no success marker.
	OutcomeRejected
	// OutcomeAccepted means response.@attributes.REGISTER is "OK".
	OutcomeAccepted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unparseable"
	}
}

const registerOK = "OK"

var (
	registerPath     = []string{"response", "@attributes", "REGISTER"}
	errorDescription = []string{"error", "@attributes", "description"}
)

// Envelope is a decoded response document. The zero value holds nothing and
// every lookup on it misses.
type Envelope struct {
	root any
}

// Decode parses body as JSON. Errors wrap ErrUndecodable.
func Decode(body string) (Envelope, error) {
	var root any
	if err := json.Unmarshal([]byte(body), &root); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrUndecodable, err)
	}
	return Envelope{root: root}, nil
}

// Lookup walks keys through nested objects. It reports false when any key is
// absent, an intermediate value is not an object, or the final value is null.
func (e Envelope) Lookup(keys ...string) (any, bool) {
	cur := e.root
	for _, key := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[key]; !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// String is Lookup restricted to string values.
func (e Envelope) String(keys ...string) (string, bool) {
	v, ok := e.Lookup(keys...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Register returns response.@attributes.REGISTER, or "" when absent.
func (e Envelope) Register() string {
	s, _ := e.String(registerPath...)
	return s
}

// ErrorDescription returns the newznab-style error.@attributes.description,
// or "" when absent.
func (e Envelope) ErrorDescription() string {
	s, _ := e.String(errorDescription...)
	return s
}

// Accepted reports whether the envelope carries the success marker.
func (e Envelope) Accepted() bool {
	return e.Register() == registerOK
}

// Interpret decodes body and classifies it. The returned Envelope is the zero
// value when the body is unparseable.
func Interpret(body string) (Outcome, Envelope) {
	env, err := Decode(body)
	if err != nil {
		return OutcomeUnparseable, Envelope{}
	}
	if env.Accepted() {
		return OutcomeAccepted, env
	}
	return OutcomeRejected, env
}

// Classify maps a raw body to an Outcome. It never panics: anything that is
// not JSON is OutcomeUnparseable.
func Classify(body string) Outcome {
	outcome, _ := Interpret(body)
	return outcome
}
